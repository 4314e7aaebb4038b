package extract

import (
	"regexp"
	"strings"

	"github.com/insurdata/clausekb/internal/cnum"
	"github.com/insurdata/clausekb/internal/model"
)

// ageRule pairs a clause pattern with an interpreter producing a condition.
// Rules are evaluated top-to-bottom over the whole clause; every match
// contributes, and results union by semantic key.
type ageRule struct {
	re     *regexp.Regexp
	interp func(m []string) (model.AgeCondition, bool)
}

// bound builds an interpreter for single-threshold patterns with one
// numeral capture group.
func bound(subject model.AgeSubject, op model.AgeOperator) func([]string) (model.AgeCondition, bool) {
	return func(m []string) (model.AgeCondition, bool) {
		age, ok := cnum.Atoi(m[1])
		if !ok {
			return model.AgeCondition{}, false
		}
		return model.AgeCondition{Subject: subject, Operator: op, Age: age}, true
	}
}

// span builds an interpreter for dual-bound range patterns. maxDelta adjusts
// the upper capture for exclusive upper bounds (-1) vs inclusive ones (0).
func span(maxDelta int) func([]string) (model.AgeCondition, bool) {
	return func(m []string) (model.AgeCondition, bool) {
		lo, okLo := cnum.Atoi(m[1])
		hi, okHi := cnum.Atoi(m[2])
		if !okLo || !okHi {
			return model.AgeCondition{}, false
		}
		return model.AgeCondition{
			Subject:  model.AgeAtDiagnosis,
			Operator: model.AgeRange,
			Age:      lo,
			MaxAge:   hi + maxDelta,
		}, true
	}
}

// The digit and Chinese-numeral variants of each threshold phrasing exist as
// separate rules: clauses routinely restate one condition in both systems,
// and the union-by-key step collapses the duplicates.
var numClasses = []string{`[0-9]+`, `[一二三四五六七八九十]+`}

func expand(rules *[]ageRule, tmpl string, interp func([]string) (model.AgeCondition, bool)) {
	for _, class := range numClasses {
		p := strings.ReplaceAll(tmpl, "NUM", "("+class+")")
		*rules = append(*rules, ageRule{re: regexp.MustCompile(p), interp: interp})
	}
}

// ageRules is ordered most-specific first. Compound dual-bound ranges come
// before single-bound rules so a generic rule cannot partially match one leg
// of a range and corrupt it.
var ageRules = buildAgeRules()

func buildAgeRules() []ageRule {
	var rules []ageRule
	add := func(tmpl string, interp func([]string) (model.AgeCondition, bool)) {
		expand(&rules, tmpl, interp)
	}

	// Dual-bound ranges.
	add(`年满NUM周岁的首个保险?单?周年日[（(]含(?:当日)?[)）]?到年满NUM周岁的首个保险?单?周年日[（(]不含(?:当日)?[)）]?之间`, span(-1))
	add(`年满NUM周岁的保单周年日[（(]含[^)）]*[)）]与年满NUM周岁的保单周年日[（(]不含`, span(-1))
	add(`年龄到达NUM周岁的合同生效对应日[（(]含[)）]至年龄到达NUM周岁的合同生效对应日[（(]不含[)）]之间`, span(-1))
	add(`于NUM周岁的保单周年日[（(]含[)）]后且NUM周岁的保单周年日[（(]不含[)）]前`, span(-1))
	add(`NUM周岁[（(]含[)）]至NUM周岁[（(]含[)）]之间`, span(0))

	// "年满X周岁" anniversary phrasings.
	add(`年满NUM周岁的保单周年日[（(]不含[^)）]*[)）]前`, bound(model.AgeAtDiagnosis, model.AgeLT))
	add(`年满NUM周岁的保单周年日后[（(]含[^)）]*[)）]`, bound(model.AgeAtDiagnosis, model.AgeGTE))
	add(`年满NUM周岁后的首个保单周年日之前`, bound(model.AgeAtUnderwriting, model.AgeLT))
	add(`年满NUM周岁的首个保单周年日之后`, bound(model.AgeAtUnderwriting, model.AgeGTE))
	add(`年满NUM周岁后的首个保单年生效对应日零?时?之前`, bound(model.AgeAtUnderwriting, model.AgeLT))
	add(`年满NUM周岁的年生效对应日前`, bound(model.AgeAtUnderwriting, model.AgeLT))

	// "在/于X周岁" anniversary phrasings.
	add(`在(?:被保险人)?NUM周岁的保险?单?周年日(?:零时)?[之以]?前`, bound(model.AgeAtDiagnosis, model.AgeLT))
	add(`在NUM周岁的保险?单?周年日(?:零时)?[之以]?后`, bound(model.AgeAtDiagnosis, model.AgeGTE))
	add(`于NUM周岁的保单周年日之后[（(]含[^)）]*[)）]`, bound(model.AgeAtDiagnosis, model.AgeGTE))
	add(`于NUM周岁的保单周年日[（(]含[)）]后`, bound(model.AgeAtDiagnosis, model.AgeGTE))
	add(`于NUM周岁保单生效对应日[（(]不含[)）]之?前`, bound(model.AgeAtDiagnosis, model.AgeLT))
	add(`于NUM周岁保单生效对应日后`, bound(model.AgeAtDiagnosis, model.AgeGTE))

	// Explicit diagnosis-time / underwriting-time comparisons.
	add(`确诊时未满NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeLT))
	add(`初次确诊时[^，,。]*?未满NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeLT))
	add(`确诊时已满NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeGTE))
	add(`初次确诊时年龄已满NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeGTE))
	add(`确诊时(?:被保险人)?年龄在NUM周岁[（(]含[)）]以下`, bound(model.AgeAtDiagnosis, model.AgeLTE))
	add(`确诊时被保险人小于或等于NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeLTE))
	add(`投保时未满NUM周岁`, bound(model.AgeAtUnderwriting, model.AgeLT))
	add(`投保年龄小于或等于NUM周岁`, bound(model.AgeAtUnderwriting, model.AgeLTE))
	add(`投保时被保险人年龄NUM周岁及以下`, bound(model.AgeAtUnderwriting, model.AgeLTE))
	add(`年龄到达NUM周岁的合同生效对应日[（(]不含[)）]前`, bound(model.AgeAtUnderwriting, model.AgeLT))
	add(`年龄到达NUM周岁的合同生效对应日[（(]含[)）]`, bound(model.AgeAtUnderwriting, model.AgeGTE))

	// Bare comparisons.
	add(`年龄未满NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeLT))
	add(`年龄已满NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeGTE))
	add(`年龄在NUM周岁[（(]含[)）]?及?以下`, bound(model.AgeAtDiagnosis, model.AgeLTE))
	add(`不超过NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeLTE))
	add(`超过NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeGT))
	add(`未满NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeLT))
	add(`已满NUM周岁`, bound(model.AgeAtDiagnosis, model.AgeGTE))
	add(`NUM周岁及以上`, bound(model.AgeAtDiagnosis, model.AgeGTE))

	// Generic fallbacks, last.
	add(`年满NUM周岁[^，,。]*?之前`, bound(model.AgeAtUnderwriting, model.AgeLT))
	add(`年满NUM周岁[^，,。]*?之后`, bound(model.AgeAtUnderwriting, model.AgeGTE))
	add(`NUM周岁前`, bound(model.AgeAtUnderwriting, model.AgeLT))
	add(`NUM周岁后`, bound(model.AgeAtUnderwriting, model.AgeGTE))

	return rules
}

// extractAges runs the ordered rule table with accumulation. The engine does
// not stop at the first match; the seen set keyed by semantic identity keeps
// restatements from duplicating a condition. Each match claims its text span
// so a lower-priority generic rule cannot re-match one leg of a compound
// condition already consumed by a range rule.
func extractAges(text string) []model.AgeCondition {
	var out []model.AgeCondition
	var claimed [][2]int
	seen := make(map[string]struct{})

	overlaps := func(lo, hi int) bool {
		for _, c := range claimed {
			if lo < c[1] && hi > c[0] {
				return true
			}
		}
		return false
	}

	for _, rule := range ageRules {
		for _, idx := range rule.re.FindAllStringSubmatchIndex(text, -1) {
			if overlaps(idx[0], idx[1]) {
				continue
			}
			m := make([]string, 0, len(idx)/2)
			for g := 0; g < len(idx); g += 2 {
				if idx[g] < 0 {
					m = append(m, "")
					continue
				}
				m = append(m, text[idx[g]:idx[g+1]])
			}
			cond, ok := rule.interp(m)
			if !ok {
				continue
			}
			claimed = append(claimed, [2]int{idx[0], idx[1]})
			key := cond.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, cond)
		}
	}
	return out
}
