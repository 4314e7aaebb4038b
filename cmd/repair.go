package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insurdata/clausekb/internal/audit"
	"github.com/insurdata/clausekb/internal/corpus"
	"github.com/insurdata/clausekb/internal/repair"
)

var repairDryRun bool

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Apply mechanical fixes for validator findings",
	Long:  "Validates every batch and applies the deterministic repair handlers in severity order. Files are rewritten in place; --dry-run reports without writing.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("corpus"); err != nil {
			return err
		}

		pol, err := repair.LoadPolicy(cfg.Repair.PolicyFile)
		if err != nil {
			return err
		}

		loaded, err := corpus.LoadGlob(cfg.Corpus.BatchGlob)
		if err != nil {
			return eris.Wrap(err, "repair: load batches")
		}
		_, raws, err := loadCorpus()
		if err != nil {
			return err
		}

		resolved, unresolved, written := 0, 0, 0
		for _, l := range loaded {
			changed := false
			for i := range l.Batch.Cases {
				c := &l.Batch.Cases[i]
				findings := audit.Check(*c, raws[c.SequenceID])
				if len(findings) == 0 {
					continue
				}
				for _, res := range repair.Apply(c, raws[c.SequenceID], findings, pol) {
					if res.Resolved {
						resolved++
					} else {
						unresolved++
						zap.L().Warn("finding needs human review",
							zap.Int("sequence", res.Finding.SequenceID),
							zap.String("type", string(res.Finding.Type)),
							zap.String("action", res.Action),
						)
					}
				}
				changed = true
			}
			if changed && !repairDryRun {
				if err := corpus.SaveBatch(l.Path, l.Batch); err != nil {
					return eris.Wrap(err, "repair: save batch")
				}
				written++
			}
		}

		zap.L().Info("repair complete",
			zap.Int("resolved", resolved),
			zap.Int("unresolved", unresolved),
			zap.Int("filesWritten", written),
			zap.Bool("dryRun", repairDryRun),
		)
		return nil
	},
}

func init() {
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "report repairs without writing files")
	rootCmd.AddCommand(repairCmd)
}
