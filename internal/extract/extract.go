// Package extract maps unstructured Chinese clause text to the stage-based
// payout feature bundle via ordered pattern-rule tables.
//
// Rules accumulate: every matching rule contributes, and results union by
// semantic key, because clauses routinely restate one condition in parallel
// phrasing. Extraction never fails; absent features are omitted, never
// defaulted wrongly.
package extract

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/width"

	"github.com/insurdata/clausekb/internal/model"
)

// Features is the bundle extracted from one clause.
type Features struct {
	WaitingPeriodStatus model.PeriodStatus
	// WaitingSplit signals that the clause pays returned premiums during
	// the waiting period and the substantive formula after it, so the case
	// splits into two stages.
	WaitingSplit        bool
	AgeConditions       []model.AgeCondition
	PolicyYearRange     *model.PolicyYearRange
	PaymentPeriodStatus model.PeriodStatus
	Formula             string
	TableDriven         bool
	ContinuousPayment   *model.ContinuousPayment
	Notes               []string
}

// Extract runs all rule tables over the clause text. Full-width digits and
// punctuation are folded to ASCII first so one rule covers both widths.
func Extract(clauseText string) Features {
	text := width.Fold.String(clauseText)

	f := Features{
		WaitingPeriodStatus: waitingStatus(text),
		AgeConditions:       extractAges(text),
		PolicyYearRange:     extractPolicyYears(text),
		PaymentPeriodStatus: DetectPaymentPeriod(text),
		ContinuousPayment:   extractContinuous(text),
		Notes:               extractNotes(text),
	}
	f.Formula, f.TableDriven, f.WaitingSplit = classifyFormula(text)

	if f.TableDriven {
		f.Notes = append(f.Notes, notePerTableDetail)
	}
	if f.WaitingSplit {
		flagMisplacedQualifiers(text, f)
	}
	return f
}

// waitingStatus classifies the waiting-period side of the clause. Accident
// riders and anything not explicitly inside the waiting period default to
// after.
func waitingStatus(text string) model.PeriodStatus {
	if strings.Contains(text, "等待期内") || strings.Contains(text, "观察期内") {
		return model.PeriodDuring
	}
	return model.PeriodAfter
}

// flagMisplacedQualifiers warns when a split clause carries age or year
// qualifiers only in its premium-return segment. Qualifiers are attached to
// the post-waiting stage by convention; a clause that qualifies the return
// stage instead needs human review, not a silent re-home.
func flagMisplacedQualifiers(text string, f Features) {
	if len(f.AgeConditions) == 0 && f.PolicyYearRange == nil {
		return
	}
	cut := strings.Index(text, "等待期满后")
	if cut < 0 {
		cut = strings.Index(text, "等待期后")
	}
	if cut < 0 {
		return
	}
	post := text[cut:]
	if len(extractAges(post)) == 0 && extractPolicyYears(post) == nil {
		zap.L().Warn("qualifiers matched only in the premium-return segment of a split clause",
			zap.String("clause", clip(text, 60)),
		)
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
