// Package audit validates structured Cases against the schema contract and
// against the raw clause they were derived from. Checks never mutate; the
// repairer consumes the findings.
package audit

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"github.com/insurdata/clausekb/internal/extract"
	"github.com/insurdata/clausekb/internal/model"
)

// Check runs every validation rule over one case. The raw clause supplies
// the content-consistency signals; pass a zero RawClause when only schema
// checks are wanted. Check is pure: callers may re-run it after repair to
// confirm convergence.
func Check(c model.Case, raw model.RawClause) []model.Finding {
	var out []model.Finding
	add := func(sev model.Severity, typ model.FindingType, stage int, msg string) {
		out = append(out, model.Finding{
			Severity:    sev,
			Type:        typ,
			SequenceID:  c.SequenceID,
			StageNumber: stage,
			Message:     msg,
		})
	}

	if c.NaturalLanguageDescription != "" {
		add(model.SeverityP0, model.FindingForbiddenCaseDescription, 0,
			"case carries a naturalLanguageDescription; descriptions belong on stages")
	}

	if msg := stageSetViolation(c.PayoutAmount); msg != "" {
		add(model.SeverityP0, model.FindingMissingStageField, 0, msg)
	}

	for _, s := range c.PayoutAmount {
		if s.Note != "" {
			add(model.SeverityP0, model.FindingStageLevelNote, s.StageNumber,
				"stage carries a note; notes are case-level only")
		}
		if missing := missingStageFields(s); len(missing) > 0 {
			add(model.SeverityP0, model.FindingMissingStageField, s.StageNumber,
				"stage is missing required fields: "+strings.Join(missing, ", "))
		}
		if s.ContinuousPayment != nil && s.ContinuousPayment.Frequency == "" {
			add(model.SeverityP2, model.FindingMissingFrequency, s.StageNumber,
				"continuousPayment has no frequency")
		}
		if gaps := descriptionGaps(s); len(gaps) > 0 {
			add(model.SeverityP2, model.FindingIncompleteDescription, s.StageNumber,
				"description does not mention: "+strings.Join(gaps, ", "))
		}
	}

	if raw.ClauseText != "" {
		text := width.Fold.String(raw.ClauseText)
		if n, ok := extract.CumulativeLimit(text); ok && !NoteCoversCumulative(c.Note) {
			add(model.SeverityP1, model.FindingMissingCumulativeLimit, 0,
				fmt.Sprintf("clause caps cumulative payouts at %d but the case note does not record it", n))
		}
		if extract.HasTermination(text) && !NoteHasPayoutLimit(c.Note) {
			add(model.SeverityP1, model.FindingMissingTerminationNote, 0,
				"clause terminates cover after payout but the case note records no payout limit")
		}
		if extract.DetectPaymentPeriod(text) != "" && !anyPaymentStatus(c) {
			add(model.SeverityP1, model.FindingMissingPaymentPeriod, 0,
				"clause conditions payout on the premium payment period but no stage records it")
		}
	}

	return out
}

// stageSetViolation checks the case-level stage-set contract: at least one
// stage, numbered exactly 1..N. Individual field checks are per stage.
func stageSetViolation(stages []model.PayoutStage) string {
	if len(stages) == 0 {
		return "case has no payout stages"
	}
	for i, s := range stages {
		if s.StageNumber != i+1 {
			return fmt.Sprintf("stage numbers must run 1..%d without gaps, got %d at position %d",
				len(stages), s.StageNumber, i+1)
		}
	}
	return ""
}

// missingStageFields lists the always-required stage fields that are unset.
func missingStageFields(s model.PayoutStage) []string {
	var missing []string
	if s.Period == "" {
		missing = append(missing, "period")
	}
	if s.WaitingPeriodStatus == "" {
		missing = append(missing, "waitingPeriodStatus")
	}
	if s.Formula == "" {
		missing = append(missing, "formula")
	}
	if s.NaturalLanguageDescription == "" {
		missing = append(missing, "naturalLanguageDescription")
	}
	return missing
}

// descriptionGaps lists the structured facts of the stage that its
// description fails to mention. The description is redundant by design, so
// every machine-readable field must surface in it.
func descriptionGaps(s model.PayoutStage) []string {
	desc := s.NaturalLanguageDescription
	if desc == "" {
		// Absence is already a P0 missing-field finding.
		return nil
	}
	var gaps []string
	if !strings.Contains(desc, "等待期") {
		gaps = append(gaps, "waiting period")
	}
	for _, cond := range s.AgeConditions {
		if !strings.Contains(desc, fmt.Sprintf("%d周岁", cond.Age)) {
			gaps = append(gaps, fmt.Sprintf("age %d", cond.Age))
		}
	}
	if s.PolicyYearRange != nil && !strings.Contains(desc, "保单年度") {
		gaps = append(gaps, "policy year range")
	}
	if s.PaymentPeriodStatus != "" && !strings.Contains(desc, "交费期") {
		gaps = append(gaps, "payment period")
	}
	if cp := s.ContinuousPayment; cp != nil {
		switch cp.Type {
		case model.ContinuousFixedCount:
			if !strings.Contains(desc, fmt.Sprintf("分%d次", cp.TotalCount)) {
				gaps = append(gaps, "installment count")
			}
		case model.ContinuousUntilTermination:
			if !strings.Contains(desc, "持续给付") {
				gaps = append(gaps, "continuous payment")
			}
		}
	}
	if ratio := extract.FormulaRatio(s.Formula); ratio != "" && !strings.Contains(desc, ratio+"%") {
		gaps = append(gaps, "payout ratio")
	}
	return gaps
}

func anyPaymentStatus(c model.Case) bool {
	for _, s := range c.PayoutAmount {
		if s.PaymentPeriodStatus != "" {
			return true
		}
	}
	return false
}

var (
	payoutLimitRe = regexp.MustCompile(`限赔|次为限|仅给付[0-9一]次`)
	cumulativeRe  = regexp.MustCompile(`累计[^；]*[0-9]+次|以[0-9]+次为限`)
)

// NoteHasPayoutLimit reports whether the case note records any payout-count
// cap. A termination-style clause requires one.
func NoteHasPayoutLimit(note string) bool {
	return payoutLimitRe.MatchString(note)
}

// NoteCoversCumulative reports whether the case note records a cumulative
// payout cap.
func NoteCoversCumulative(note string) bool {
	return cumulativeRe.MatchString(note)
}
