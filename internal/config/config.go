package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Corpus CorpusConfig `yaml:"corpus" mapstructure:"corpus"`
	Repair RepairConfig `yaml:"repair" mapstructure:"repair"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// CorpusConfig locates the raw clause feed and the batch files on disk.
type CorpusConfig struct {
	RawFile   string `yaml:"raw_file" mapstructure:"raw_file"`
	BatchGlob string `yaml:"batch_glob" mapstructure:"batch_glob"`
}

// RepairConfig configures the note-merge policy.
type RepairConfig struct {
	PolicyFile string `yaml:"policy_file" mapstructure:"policy_file"`
}

// ServerConfig configures the review API server.
type ServerConfig struct {
	Port              int     `yaml:"port" mapstructure:"port"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CLAUSEKB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("corpus.raw_file", "data/clauses.txt")
	v.SetDefault("corpus.batch_glob", "data/batch_*.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.requests_per_second", 20)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields a command mode depends on. Modes: "corpus" for
// the file-based commands, "serve" for the review API.
func (c *Config) Validate(mode string) error {
	var missing []string
	switch mode {
	case "corpus":
		if c.Corpus.RawFile == "" {
			missing = append(missing, "corpus.raw_file is required")
		}
		if c.Corpus.BatchGlob == "" {
			missing = append(missing, "corpus.batch_glob is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
		if c.Server.RequestsPerSecond <= 0 {
			missing = append(missing, "server.requests_per_second must be > 0")
		}
		if c.Corpus.BatchGlob == "" {
			missing = append(missing, "corpus.batch_glob is required")
		}
	default:
		return eris.New("config: unknown mode " + mode)
	}
	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
