package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Canonical formula fragments. Formulas use ASCII operators and the fixed
// variable vocabulary only; Chinese punctuation never appears.
const (
	FormulaPremiums    = "已交保费"
	FormulaCashValue   = "Max(已交保费, 现金价值)"
	FormulaPerTable    = "基本保额 * 赔付比例"
	FormulaFullPayout  = "基本保额 * 100%"
	formulaBase        = "基本保额"
	notePerTableDetail = "赔付比例按条款约定表确定"
)

var (
	tableRe      = regexp.MustCompile(`(比例表|对照表|利益表|赔付比例|给付比例)`)
	premiumRe    = regexp.MustCompile(`(已交保险?费|所交保费|累计已交保费)`)
	returnRe     = regexp.MustCompile(`(退还|返还|无息退还)[^，,。]*(已交保险?费|所交保费|保险费)`)
	percentRe    = regexp.MustCompile(`(基本保额|基本保险金额|保险金额|投保金额)的?\s*([0-9]+(?:\.[0-9]+)?)\s*%`)
	timesPctRe   = regexp.MustCompile(`(基本保额|基本保险金额|保险金额|投保金额)[×*]\s*([0-9]+(?:\.[0-9]+)?)\s*%`)
	multipleRe   = regexp.MustCompile(`(基本保额|基本保险金额|保险金额|投保金额)的?([0-9]+)倍`)
	bareTimesRe  = regexp.MustCompile(`(基本保额|基本保险金额|保险金额|投保金额)[×*]\s*([0-9]+)(?:[^%0-9.]|$)`)
	ratioRe      = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*%`)
	cashValueStr = "现金价值"
)

// classifyFormula is the clause-wide payout decision list. split reports
// that premium-return language is qualified by a waiting-period boundary, so
// the case builder must emit two stages: the returned formula then describes
// the post-waiting stage, and stage one returns premiums paid.
func classifyFormula(text string) (formula string, table, split bool) {
	// (1) Tabular reference.
	if tableRe.MatchString(text) {
		return FormulaPerTable, true, false
	}

	// (2) Premium-return language, possibly split at the waiting period.
	// A premium mention alongside cash-value language is a greater-of
	// comparison, not a return of premium, and falls through to (3).
	premiumReturn := returnRe.MatchString(text) ||
		(premiumRe.MatchString(text) && !strings.Contains(text, cashValueStr))
	if premiumReturn {
		if strings.Contains(text, "等待期内") &&
			(strings.Contains(text, "等待期满后") || strings.Contains(text, "等待期后")) {
			return classifyGeneral(text), false, true
		}
		return FormulaPremiums, false, false
	}

	return classifyGeneral(text), false, false
}

// classifyGeneral handles decision-list steps (3)-(6): cash value,
// percentage, multiple, default.
func classifyGeneral(text string) string {
	if strings.Contains(text, cashValueStr) {
		return FormulaCashValue
	}
	if m := timesPctRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s * %s%%", formulaBase, m[2])
	}
	if m := percentRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s * %s%%", formulaBase, m[2])
	}
	if m := multipleRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s * %s", formulaBase, m[2])
	}
	if m := bareTimesRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s * %s", formulaBase, m[2])
	}
	return FormulaFullPayout
}

// FormulaRatio extracts the numeric percentage from a canonical formula,
// e.g. "50" from "基本保额 * 50%". Empty when the formula carries no ratio.
func FormulaRatio(formula string) string {
	m := ratioRe.FindStringSubmatch(formula)
	if m == nil {
		return ""
	}
	return m[1]
}
