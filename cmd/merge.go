package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insurdata/clausekb/internal/corpus"
	"github.com/insurdata/clausekb/internal/model"
)

var (
	mergeOutput  string
	mergeBatchID int
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge every batch into one file",
	Long:  "Combines all batches matching the configured glob into a single batch sorted by sequence id. Duplicate sequence ids abort the merge.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("corpus"); err != nil {
			return err
		}

		loaded, err := corpus.LoadGlob(cfg.Corpus.BatchGlob)
		if err != nil {
			return eris.Wrap(err, "merge: load batches")
		}
		batches := make([]model.Batch, len(loaded))
		for i, l := range loaded {
			batches[i] = l.Batch
		}

		merged, err := corpus.Merge(mergeBatchID, batches)
		if err != nil {
			return err
		}
		if err := corpus.SaveBatch(mergeOutput, merged); err != nil {
			return eris.Wrap(err, "merge: save batch")
		}

		zap.L().Info("merge complete",
			zap.Int("batches", len(batches)),
			zap.Int("cases", merged.TotalCases),
			zap.String("range", merged.SequenceRange),
			zap.String("output", mergeOutput),
		)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeOutput, "output", "", "merged batch file to write (required)")
	mergeCmd.Flags().IntVar(&mergeBatchID, "batch-id", 0, "batch id for the merged batch (required)")
	_ = mergeCmd.MarkFlagRequired("output")
	_ = mergeCmd.MarkFlagRequired("batch-id")
	rootCmd.AddCommand(mergeCmd)
}
