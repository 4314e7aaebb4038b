package extract

import (
	"regexp"

	"github.com/insurdata/clausekb/internal/cnum"
	"github.com/insurdata/clausekb/internal/model"
)

// DefaultFrequency is the canonical installment unit: once per policy
// anniversary date.
const DefaultFrequency = "每年对应日"

var (
	fixedCountRes = []*regexp.Regexp{
		regexp.MustCompile(`每年给付[^，,。]*?共([0-9]+|[一二三四五六七八九十]+)次`),
		regexp.MustCompile(`分([0-9]+|[一二三四五六七八九十]+)次给付`),
		regexp.MustCompile(`连续给付([0-9]+|[一二三四五六七八九十]+)年`),
	}
	untilTerminationRe = regexp.MustCompile(`持续给付[^，,。]*?(至|直至)[^，,。]*?(终止|满期)`)
)

// extractContinuous detects multi-installment payout schedules.
func extractContinuous(text string) *model.ContinuousPayment {
	for _, re := range fixedCountRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, ok := cnum.Atoi(m[1]); ok {
				return &model.ContinuousPayment{
					Type:       model.ContinuousFixedCount,
					TotalCount: n,
					Frequency:  DefaultFrequency,
				}
			}
		}
	}
	if untilTerminationRe.MatchString(text) {
		return &model.ContinuousPayment{
			Type:      model.ContinuousUntilTermination,
			Frequency: DefaultFrequency,
		}
	}
	return nil
}
