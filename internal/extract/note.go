package extract

import (
	"fmt"
	"regexp"
	"strconv"
)

// Canonical note fragments. Note fragments are case-level, never stage-level.
const (
	NoteSinglePayout     = "限赔1次"
	NoteActivityStandard = "需达到运动标准"
)

var (
	singlePayoutRe = regexp.MustCompile(`(给付次数)?以一次为限|仅给付一次|限给付一次|限交一次|限赔一次`)
	activityRe     = regexp.MustCompile(`(运动|健身|体育锻炼)[^，,。]{0,12}(标准|达标|目标)`)
	intervalRe     = regexp.MustCompile(`间隔[^，,。]{0,6}?([0-9]+)[日天]`)
)

// extractNotes maps fixed trigger phrases to fixed note strings. Fragments
// are independent of the payout classification and never attach to a stage.
func extractNotes(text string) []string {
	var notes []string

	if singlePayoutRe.MatchString(text) {
		notes = append(notes, NoteSinglePayout)
	}
	if n, ok := CumulativeLimit(text); ok {
		notes = append(notes, fmt.Sprintf("累计最多赔%d次", n))
	}
	if m := intervalRe.FindStringSubmatch(text); m != nil {
		if days, err := strconv.Atoi(m[1]); err == nil {
			notes = append(notes, fmt.Sprintf("需间隔%d日", days))
		}
	}
	if activityRe.MatchString(text) {
		notes = append(notes, NoteActivityStandard)
	}
	return notes
}
