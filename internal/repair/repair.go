// Package repair applies mechanical fixes for validator findings. Every
// handler is deterministic and idempotent, so a repaired corpus re-validates
// clean and a second pass is a no-op.
package repair

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/width"

	"github.com/insurdata/clausekb/internal/compose"
	"github.com/insurdata/clausekb/internal/extract"
	"github.com/insurdata/clausekb/internal/model"
)

// Resolution records the outcome of one finding's repair attempt. Unresolved
// findings need human review.
type Resolution struct {
	Finding  model.Finding `json:"finding"`
	Resolved bool          `json:"resolved"`
	Action   string        `json:"action"`
}

// Apply repairs the case in place, working findings in severity order so
// structural fixes land before content fixes read the structure. The raw
// clause supplies the content the fixes re-derive.
func Apply(c *model.Case, raw model.RawClause, findings []model.Finding, pol Policy) []Resolution {
	ordered := append([]model.Finding(nil), findings...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Severity.Rank() != ordered[j].Severity.Rank() {
			return ordered[i].Severity.Rank() < ordered[j].Severity.Rank()
		}
		return ordered[i].StageNumber < ordered[j].StageNumber
	})

	text := width.Fold.String(raw.ClauseText)
	out := make([]Resolution, 0, len(ordered))
	for _, f := range ordered {
		res := Resolution{Finding: f}
		switch f.Type {
		case model.FindingStageLevelNote:
			res.Resolved, res.Action = mergeStageNotes(c, f.StageNumber, pol)
		case model.FindingForbiddenCaseDescription:
			c.NaturalLanguageDescription = ""
			res.Resolved, res.Action = true, "removed case-level description"
		case model.FindingMissingStageField:
			res.Resolved, res.Action = fillStageFields(c)
		case model.FindingMissingCumulativeLimit:
			res.Resolved, res.Action = addCumulativeNote(c, text)
		case model.FindingMissingTerminationNote:
			prependNote(c, "给付以1次为限")
			res.Resolved, res.Action = true, "recorded single-payout limit in case note"
		case model.FindingMissingPaymentPeriod:
			res.Resolved, res.Action = setPaymentPeriod(c, text)
		case model.FindingIncompleteDescription:
			res.Resolved, res.Action = resynthesize(c, f.StageNumber)
		case model.FindingMissingFrequency:
			res.Resolved, res.Action = fillFrequency(c, f.StageNumber)
		default:
			res.Action = "no handler for finding type"
		}
		out = append(out, res)
	}
	return out
}

// mergeStageNotes moves a stage's note fragments to the case note, dropping
// fragments the policy excludes, then clears the stage field.
func mergeStageNotes(c *model.Case, stageNumber int, pol Policy) (bool, string) {
	kept, dropped := 0, 0
	for i := range c.PayoutAmount {
		s := &c.PayoutAmount[i]
		if s.Note == "" || (stageNumber != 0 && s.StageNumber != stageNumber) {
			continue
		}
		for _, frag := range splitNote(s.Note) {
			if pol.Keep(frag) {
				appendNote(c, frag)
				kept++
			} else {
				dropped++
			}
		}
		s.Note = ""
	}
	return true, fmt.Sprintf("merged stage note into case note (%d kept, %d dropped)", kept, dropped)
}

// fillStageFields renumbers stages contiguously and re-synthesizes the
// period and description of any stage missing them. A missing formula has no
// mechanical recovery and stays for human review.
func fillStageFields(c *model.Case) (bool, string) {
	if len(c.PayoutAmount) == 0 {
		return false, "case has no payout stages; a stage cannot be invented mechanically"
	}
	ok := true
	for i := range c.PayoutAmount {
		s := &c.PayoutAmount[i]
		s.StageNumber = i + 1
		if s.WaitingPeriodStatus == "" {
			s.WaitingPeriodStatus = model.PeriodAfter
		}
		if s.Formula == "" {
			ok = false
			continue
		}
		if s.Period == "" {
			s.Period = compose.Period(*s)
		}
		if s.NaturalLanguageDescription == "" {
			s.NaturalLanguageDescription = compose.Describe(*s)
		}
	}
	if !ok {
		return false, "renumbered stages; formula cannot be derived mechanically"
	}
	return true, "renumbered stages and filled missing period and description"
}

func addCumulativeNote(c *model.Case, text string) (bool, string) {
	n, found := extract.CumulativeLimit(text)
	if !found {
		return false, "clause states no recoverable cumulative limit"
	}
	frag := fmt.Sprintf("累计最多赔%d次", n)
	appendNote(c, frag)
	return true, "recorded cumulative limit in case note: " + frag
}

// setPaymentPeriod stamps the clause's payment-period side onto the
// substantive stage, which by stage convention is the last one.
func setPaymentPeriod(c *model.Case, text string) (bool, string) {
	status := extract.DetectPaymentPeriod(text)
	if status == "" || len(c.PayoutAmount) == 0 {
		return false, "clause payment-period side is not recoverable"
	}
	s := &c.PayoutAmount[len(c.PayoutAmount)-1]
	s.PaymentPeriodStatus = status
	s.Period = compose.Period(*s)
	s.NaturalLanguageDescription = compose.Describe(*s)
	return true, fmt.Sprintf("set paymentPeriodStatus=%s on stage %d", status, s.StageNumber)
}

// resynthesize rebuilds the stage description and period from the structured
// fields, which are authoritative.
func resynthesize(c *model.Case, stageNumber int) (bool, string) {
	for i := range c.PayoutAmount {
		s := &c.PayoutAmount[i]
		if s.StageNumber != stageNumber {
			continue
		}
		if s.Formula == "" {
			return false, "description cannot be rebuilt without a formula"
		}
		s.Period = compose.Period(*s)
		s.NaturalLanguageDescription = compose.Describe(*s)
		return true, fmt.Sprintf(
			"rebuilt description of stage %d from structured fields; payout phrase regenerated from the stored formula",
			stageNumber)
	}
	return false, fmt.Sprintf("stage %d not found", stageNumber)
}

func fillFrequency(c *model.Case, stageNumber int) (bool, string) {
	for i := range c.PayoutAmount {
		s := &c.PayoutAmount[i]
		if s.StageNumber != stageNumber || s.ContinuousPayment == nil {
			continue
		}
		s.ContinuousPayment.Frequency = extract.DefaultFrequency
		return true, "defaulted continuousPayment frequency to " + extract.DefaultFrequency
	}
	return false, fmt.Sprintf("stage %d has no continuous payment", stageNumber)
}

func splitNote(note string) []string {
	return strings.FieldsFunc(note, func(r rune) bool {
		return r == '；' || r == ';'
	})
}

// appendNote adds a fragment to the case note unless an equal fragment is
// already present. Keeping the merge set-like is what makes repair
// idempotent.
func appendNote(c *model.Case, fragment string) {
	for _, existing := range splitNote(c.Note) {
		if existing == fragment {
			return
		}
	}
	if c.Note == "" {
		c.Note = fragment
		return
	}
	c.Note += "；" + fragment
}

func prependNote(c *model.Case, fragment string) {
	for _, existing := range splitNote(c.Note) {
		if existing == fragment {
			return
		}
	}
	if c.Note == "" {
		c.Note = fragment
		return
	}
	c.Note = fragment + "；" + c.Note
}
