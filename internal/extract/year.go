package extract

import (
	"regexp"

	"github.com/insurdata/clausekb/internal/cnum"
	"github.com/insurdata/clausekb/internal/model"
)

type yearRule struct {
	re     *regexp.Regexp
	interp func(m []string) *model.PolicyYearRange
}

func yearOf(token string) (int, bool) { return cnum.Atoi(token) }

func intPtr(n int) *int { return &n }

// yearRules is first-match: a clause carries at most one policy-year window,
// so the exclusive-bound phrasing must be tested before the plain one.
var yearRules = []yearRule{
	{
		re: regexp.MustCompile(`第([0-9]+)个保单周年日之前[（(]不含第[0-9]+个保单周年日[)）]`),
		interp: func(m []string) *model.PolicyYearRange {
			if y, ok := yearOf(m[1]); ok {
				return &model.PolicyYearRange{MinYear: 1, MaxYear: intPtr(y - 1)}
			}
			return nil
		},
	},
	{
		re: regexp.MustCompile(`第([0-9]+)个保险合同周年日[^，,。]*?[（(]含[)）][^，,。]*?前`),
		interp: func(m []string) *model.PolicyYearRange {
			if y, ok := yearOf(m[1]); ok {
				return &model.PolicyYearRange{MinYear: 1, MaxYear: intPtr(y)}
			}
			return nil
		},
	},
	{
		re: regexp.MustCompile(`第([0-9]+|[一二三四五六七八九十]+)个保单周年日前`),
		interp: func(m []string) *model.PolicyYearRange {
			if y, ok := yearOf(m[1]); ok {
				return &model.PolicyYearRange{MinYear: 1, MaxYear: intPtr(y)}
			}
			return nil
		},
	},
	{
		re: regexp.MustCompile(`第([0-9]+|[一二三四五六七八九十]+)个保单周年日后`),
		interp: func(m []string) *model.PolicyYearRange {
			if y, ok := yearOf(m[1]); ok {
				return &model.PolicyYearRange{MinYear: y}
			}
			return nil
		},
	},
	{
		re: regexp.MustCompile(`第([0-9]+)[-至]([0-9]+)个?保单年度`),
		interp: func(m []string) *model.PolicyYearRange {
			lo, okLo := yearOf(m[1])
			hi, okHi := yearOf(m[2])
			if okLo && okHi {
				return &model.PolicyYearRange{MinYear: lo, MaxYear: intPtr(hi)}
			}
			return nil
		},
	},
	{
		re: regexp.MustCompile(`前([0-9]+|[一二三四五六七八九十]+)个?保单年度`),
		interp: func(m []string) *model.PolicyYearRange {
			if y, ok := yearOf(m[1]); ok {
				return &model.PolicyYearRange{MinYear: 1, MaxYear: intPtr(y)}
			}
			return nil
		},
	},
}

// extractPolicyYears returns the clause's policy-year window, or nil.
func extractPolicyYears(text string) *model.PolicyYearRange {
	for _, rule := range yearRules {
		if m := rule.re.FindStringSubmatch(text); m != nil {
			if r := rule.interp(m); r != nil {
				return r
			}
		}
	}
	return nil
}
