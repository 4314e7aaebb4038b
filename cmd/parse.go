package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insurdata/clausekb/internal/audit"
	"github.com/insurdata/clausekb/internal/compose"
	"github.com/insurdata/clausekb/internal/corpus"
	"github.com/insurdata/clausekb/internal/extract"
	"github.com/insurdata/clausekb/internal/model"
)

var (
	parseInput   string
	parseOutput  string
	parseBatchID int
	parseAll     bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse raw clauses into a structured batch",
	Long:  "Runs the extraction rules over the raw clause feed and writes the resulting cases to a batch file. By default only clauses absent from existing batches are parsed.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("corpus"); err != nil {
			return err
		}

		input := parseInput
		if input == "" {
			input = cfg.Corpus.RawFile
		}
		raws, err := corpus.ReadRawClauses(input)
		if err != nil {
			return eris.Wrap(err, "parse: read raw clauses")
		}

		if !parseAll {
			loaded, err := corpus.LoadGlob(cfg.Corpus.BatchGlob)
			if err != nil {
				return eris.Wrap(err, "parse: load existing batches")
			}
			batches := make([]model.Batch, len(loaded))
			for i, l := range loaded {
				batches[i] = l.Batch
			}
			raws = corpus.Pending(raws, batches)
		}
		if len(raws) == 0 {
			zap.L().Info("nothing to parse", zap.String("input", input))
			return nil
		}

		cases := make([]model.Case, len(raws))
		flagged := 0
		for i, raw := range raws {
			c := compose.Build(raw, extract.Extract(raw.ClauseText))
			if findings := audit.Check(c, raw); len(findings) > 0 {
				flagged++
				for _, f := range findings {
					zap.L().Warn("parsed case has findings",
						zap.Int("sequence", f.SequenceID),
						zap.String("type", string(f.Type)),
						zap.String("severity", string(f.Severity)),
					)
				}
			}
			cases[i] = c
		}

		batch, err := corpus.Merge(parseBatchID, []model.Batch{{BatchID: parseBatchID, Cases: cases}})
		if err != nil {
			return eris.Wrap(err, "parse: assemble batch")
		}
		if err := corpus.SaveBatch(parseOutput, batch); err != nil {
			return eris.Wrap(err, "parse: save batch")
		}

		zap.L().Info("parse complete",
			zap.Int("cases", batch.TotalCases),
			zap.String("range", batch.SequenceRange),
			zap.Int("flagged", flagged),
			zap.String("output", parseOutput),
		)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseInput, "input", "", "raw clause file (default from config)")
	parseCmd.Flags().StringVar(&parseOutput, "output", "", "batch file to write (required)")
	parseCmd.Flags().IntVar(&parseBatchID, "batch-id", 0, "batch id for the new batch (required)")
	parseCmd.Flags().BoolVar(&parseAll, "all", false, "parse every clause, including ones already in the corpus")
	_ = parseCmd.MarkFlagRequired("output")
	_ = parseCmd.MarkFlagRequired("batch-id")
	rootCmd.AddCommand(parseCmd)
}
