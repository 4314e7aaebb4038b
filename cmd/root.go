package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insurdata/clausekb/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "clausekb",
	Short: "Insurance clause parsing and corpus tooling",
	Long:  "Converts free-text policy clauses into structured stage-based payout cases, validates the JSON corpus against the clause text, and repairs mechanical defects.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
