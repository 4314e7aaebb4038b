package extract

import (
	"regexp"

	"github.com/insurdata/clausekb/internal/cnum"
	"github.com/insurdata/clausekb/internal/model"
)

// Shared clause-text detectors. The validator and repairer read the same
// signals off the raw clause that the extractor does, so the patterns live
// here once.

var paymentDuringRes = []*regexp.Regexp{
	regexp.MustCompile(`交费期[内间]`),
	regexp.MustCompile(`缴费期[内间]`),
	regexp.MustCompile(`交费[^，,。]*期间届满[^，,。]*前`),
	regexp.MustCompile(`缴费[^，,。]*期间届满[^，,。]*前`),
}

var paymentAfterRes = []*regexp.Regexp{
	regexp.MustCompile(`交费期满`),
	regexp.MustCompile(`缴费期满`),
	regexp.MustCompile(`交费[^，,。]*期间届满[^，,。]*后`),
	regexp.MustCompile(`缴费[^，,。]*期间届满[^，,。]*以后`),
}

// DetectPaymentPeriod reports whether the clause conditions payout on the
// premium payment period, and which side of it. Empty when the clause is
// silent.
func DetectPaymentPeriod(text string) model.PeriodStatus {
	for _, re := range paymentDuringRes {
		if re.MatchString(text) {
			return model.PeriodDuring
		}
	}
	for _, re := range paymentAfterRes {
		if re.MatchString(text) {
			return model.PeriodAfter
		}
	}
	return ""
}

var cumulativeRe = regexp.MustCompile(`累计给付[^，,。]*?以([一二三四五六七八九十]+|[0-9]+)次为限`)

// CumulativeLimit extracts the clause's cumulative payout cap, if stated.
func CumulativeLimit(text string) (int, bool) {
	m := cumulativeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return cnum.Atoi(m[1])
}

var terminationRes = []*regexp.Regexp{
	regexp.MustCompile(`给付[^，,。]*保险金[，,][^。]*本合同终止`),
	regexp.MustCompile(`给付[^，,。]*保险金[，,][^。]*责任终止`),
	regexp.MustCompile(`给付[^，,。]*保险金责任终止`),
	regexp.MustCompile(`按[^，,。]*给付[^，,。]*[，,][^。]*本合同终止`),
	regexp.MustCompile(`按[^，,。]*给付[^，,。]*[，,][^。]*责任终止`),
}

// HasTermination reports whether the clause uses a payout-then-termination
// construction, which implies a payout-count cap belongs in the case note.
func HasTermination(text string) bool {
	for _, re := range terminationRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
