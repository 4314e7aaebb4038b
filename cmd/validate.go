package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insurdata/clausekb/internal/audit"
	"github.com/insurdata/clausekb/internal/corpus"
	"github.com/insurdata/clausekb/internal/model"
)

var (
	validateJSON   bool
	validateStrict bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the corpus against schema and clause text",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("corpus"); err != nil {
			return err
		}

		cases, raws, err := loadCorpus()
		if err != nil {
			return err
		}

		var findings []model.Finding
		for _, c := range cases {
			findings = append(findings, audit.Check(c, raws[c.SequenceID])...)
		}
		report := model.NewReport(len(cases), findings)

		if validateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return eris.Wrap(err, "validate: encode report")
			}
		} else {
			formatFindings(os.Stdout, report)
		}

		zap.L().Info("validation complete",
			zap.String("report", report.ReportID),
			zap.Int("cases", report.TotalCases),
			zap.Int("findings", len(report.Findings)),
		)
		if validateStrict && len(report.Findings) > 0 {
			return eris.New(fmt.Sprintf("validate: %d findings", len(report.Findings)))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "emit the full report as JSON")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit non-zero when any finding remains")
	rootCmd.AddCommand(validateCmd)
}

// loadCorpus reads every batch plus the raw clause feed, indexed by sequence
// id. A missing feed file is tolerated; content checks are skipped then.
func loadCorpus() ([]model.Case, map[int]model.RawClause, error) {
	loaded, err := corpus.LoadGlob(cfg.Corpus.BatchGlob)
	if err != nil {
		return nil, nil, eris.Wrap(err, "load batches")
	}
	var cases []model.Case
	for _, l := range loaded {
		cases = append(cases, l.Batch.Cases...)
	}

	raws := make(map[int]model.RawClause)
	feed, err := corpus.ReadRawClauses(cfg.Corpus.RawFile)
	if err != nil {
		zap.L().Warn("raw clause feed unavailable, content checks skipped",
			zap.String("file", cfg.Corpus.RawFile),
		)
		return cases, raws, nil
	}
	for _, r := range feed {
		raws[r.SequenceID] = r
	}
	return cases, raws, nil
}

func formatFindings(out io.Writer, report model.Report) {
	if len(report.Findings) == 0 {
		fmt.Fprintf(out, "corpus clean: %d cases, no findings\n", report.TotalCases)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SEVERITY\tTYPE\tSEQUENCE\tSTAGE\tMESSAGE")
	_, _ = fmt.Fprintln(w, "--------\t----\t--------\t-----\t-------")
	for _, f := range report.Findings {
		stage := ""
		if f.StageNumber > 0 {
			stage = fmt.Sprintf("%d", f.StageNumber)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			f.Severity, f.Type, f.SequenceID, stage, f.Message)
	}
	_ = w.Flush()
}
