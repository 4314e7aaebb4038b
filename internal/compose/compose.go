// Package compose assembles payout Cases from extracted clause features and
// synthesizes their natural-language descriptions.
package compose

import (
	"fmt"
	"strings"

	"github.com/insurdata/clausekb/internal/extract"
	"github.com/insurdata/clausekb/internal/model"
)

// Build assembles the Case for one raw clause. A waiting-period split
// produces two stages: stage one returns premiums paid during the waiting
// period, stage two carries the substantive formula. Age, policy-year, and
// payment-period qualifiers describe the substantive payout, so on a split
// they attach to the last stage only.
func Build(raw model.RawClause, f extract.Features) model.Case {
	c := model.Case{
		SequenceID:   raw.SequenceID,
		ProductCode:  raw.PolicyDocumentID,
		CoverageType: raw.CoverageType,
		CoverageName: raw.CoverageName,
	}

	if f.WaitingSplit {
		during := model.PayoutStage{
			StageNumber:         1,
			WaitingPeriodStatus: model.PeriodDuring,
			Formula:             extract.FormulaPremiums,
		}
		during.Period = Period(during)
		during.NaturalLanguageDescription = Describe(during)

		after := qualifiedStage(2, f)
		c.PayoutAmount = []model.PayoutStage{during, after}
	} else {
		s := qualifiedStage(1, f)
		s.WaitingPeriodStatus = f.WaitingPeriodStatus
		s.Period = Period(s)
		s.NaturalLanguageDescription = Describe(s)
		c.PayoutAmount = []model.PayoutStage{s}
	}

	if len(f.Notes) > 0 {
		c.Note = strings.Join(f.Notes, "；")
	}
	return c
}

// qualifiedStage builds the stage that carries the extracted qualifiers and
// the classified formula.
func qualifiedStage(number int, f extract.Features) model.PayoutStage {
	s := model.PayoutStage{
		StageNumber:         number,
		WaitingPeriodStatus: model.PeriodAfter,
		PaymentPeriodStatus: f.PaymentPeriodStatus,
		Formula:             f.Formula,
		AgeConditions:       f.AgeConditions,
		PolicyYearRange:     f.PolicyYearRange,
		ContinuousPayment:   f.ContinuousPayment,
	}
	s.Period = Period(s)
	s.NaturalLanguageDescription = Describe(s)
	return s
}

// Describe synthesizes the stage description in fixed order: waiting-period
// label, age conditions, policy-year window, payment-period label, diagnosis
// marker, payout phrase, continuous-payment suffix. The validator checks
// this ordering, so the repairer re-synthesizes through the same path.
func Describe(s model.PayoutStage) string {
	return ConditionPrefix(s) + "确诊" + PayoutPhrase(s.Formula) + ContinuousSuffix(s)
}

// Period renders the stage's qualifying regime, e.g. "等待期后、交费期内".
func Period(s model.PayoutStage) string {
	return strings.Join(conditionParts(s), "、")
}

// ConditionPrefix is the description's leading condition run, ending right
// before the diagnosis marker.
func ConditionPrefix(s model.PayoutStage) string {
	return strings.Join(conditionParts(s), "、")
}

func conditionParts(s model.PayoutStage) []string {
	parts := []string{WaitingPhrase(s.WaitingPeriodStatus)}
	for _, cond := range s.AgeConditions {
		parts = append(parts, AgePhrase(cond))
	}
	if s.PolicyYearRange != nil {
		parts = append(parts, YearPhrase(*s.PolicyYearRange))
	}
	if s.PaymentPeriodStatus != "" {
		parts = append(parts, PaymentPhrase(s.PaymentPeriodStatus))
	}
	return parts
}

// WaitingPhrase renders the waiting-period label.
func WaitingPhrase(status model.PeriodStatus) string {
	if status == model.PeriodDuring {
		return "等待期内"
	}
	return "等待期后"
}

// PaymentPhrase renders the payment-period label.
func PaymentPhrase(status model.PeriodStatus) string {
	if status == model.PeriodDuring {
		return "交费期内"
	}
	return "交费期满后"
}

// AgePhrase renders one age condition.
func AgePhrase(c model.AgeCondition) string {
	switch c.Operator {
	case model.AgeLT:
		return fmt.Sprintf("%s未满%d周岁", c.Subject, c.Age)
	case model.AgeLTE:
		return fmt.Sprintf("%s%d周岁及以下", c.Subject, c.Age)
	case model.AgeGT:
		return fmt.Sprintf("%s超过%d周岁", c.Subject, c.Age)
	case model.AgeGTE:
		return fmt.Sprintf("%s满%d周岁", c.Subject, c.Age)
	case model.AgeRange:
		return fmt.Sprintf("%s%d周岁（含）至%d周岁（含）", c.Subject, c.Age, c.MaxAge)
	}
	return ""
}

// YearPhrase renders the policy-year window.
func YearPhrase(r model.PolicyYearRange) string {
	if r.MaxYear != nil {
		return fmt.Sprintf("第%d-%d保单年度", r.MinYear, *r.MaxYear)
	}
	return fmt.Sprintf("第%d保单年度起", r.MinYear)
}

// PayoutPhrase renders the formula as its natural-language payout clause,
// including the leading comma.
func PayoutPhrase(formula string) string {
	switch {
	case formula == extract.FormulaPremiums:
		return "，退还已交保费"
	case formula == extract.FormulaCashValue:
		return "，按已交保费与现金价值的较大者赔付"
	case formula == extract.FormulaPerTable:
		return "，按条款约定比例赔付"
	}
	if ratio := extract.FormulaRatio(formula); ratio != "" {
		return fmt.Sprintf("，按基本保额的%s%%赔付", ratio)
	}
	if i := strings.Index(formula, "* "); i >= 0 {
		return fmt.Sprintf("，按基本保额的%s倍赔付", formula[i+2:])
	}
	return "，按基本保额赔付"
}

// ContinuousSuffix renders the installment suffix, empty for lump sums.
func ContinuousSuffix(s model.PayoutStage) string {
	cp := s.ContinuousPayment
	if cp == nil {
		return ""
	}
	if cp.Type == model.ContinuousFixedCount {
		return fmt.Sprintf("（分%d次）", cp.TotalCount)
	}
	return "，持续给付至合同终止"
}
