package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insurdata/clausekb/internal/corpus"
	"github.com/insurdata/clausekb/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus coverage of the raw clause feed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("corpus"); err != nil {
			return err
		}

		loaded, err := corpus.LoadGlob(cfg.Corpus.BatchGlob)
		if err != nil {
			return eris.Wrap(err, "status: load batches")
		}
		batches := make([]model.Batch, len(loaded))
		for i, l := range loaded {
			batches[i] = l.Batch
		}

		raws, err := corpus.ReadRawClauses(cfg.Corpus.RawFile)
		if err != nil {
			return eris.Wrap(err, "status: read raw clauses")
		}
		pending := corpus.Pending(raws, batches)

		formatStatus(os.Stdout, loaded, len(raws), len(pending))

		zap.L().Info("status complete",
			zap.Int("batches", len(loaded)),
			zap.Int("clauses", len(raws)),
			zap.Int("pending", len(pending)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func formatStatus(out io.Writer, loaded []corpus.Loaded, total, pending int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "BATCH\tFILE\tRANGE\tCASES")
	_, _ = fmt.Fprintln(w, "-----\t----\t-----\t-----")
	for _, l := range loaded {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\n",
			l.Batch.BatchID, filepath.Base(l.Path), l.Batch.SequenceRange, l.Batch.TotalCases)
	}
	_ = w.Flush()
	fmt.Fprintf(out, "\n%d clauses in feed, %d pending\n", total, pending)
}
