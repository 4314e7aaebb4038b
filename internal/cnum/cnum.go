// Package cnum converts bounded Chinese numeral tokens to integers.
//
// The vocabulary is closed: ASCII digits and Chinese numerals in [0,100].
// Anything outside it reports no value rather than a guess.
package cnum

import "strconv"

var atoms = map[string]int{
	"零": 0, "一": 1, "二": 2, "三": 3, "四": 4,
	"五": 5, "六": 6, "七": 7, "八": 8, "九": 9,
	"十": 10, "百": 100, "一百": 100,
}

var digits = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

// Atoi returns the integer value of an ASCII-digit or Chinese numeral token
// bounded to [0,100]. The second return is false for unrecognized or
// malformed input.
func Atoi(token string) (int, bool) {
	if token == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(token); err == nil {
		if n < 0 || n > 100 {
			return 0, false
		}
		return n, true
	}
	if n, ok := atoms[token]; ok {
		return n, true
	}

	r := []rune(token)
	switch {
	case len(r) == 2 && r[0] == '十': // 十X = 10+X
		if x, ok := digits[r[1]]; ok {
			return 10 + x, true
		}
	case len(r) == 2 && r[1] == '十': // X十 = X*10
		if x, ok := digits[r[0]]; ok {
			return x * 10, true
		}
	case len(r) == 3 && r[1] == '十': // X十Y = X*10+Y
		x, okX := digits[r[0]]
		y, okY := digits[r[2]]
		if okX && okY {
			return x*10 + y, true
		}
	}
	return 0, false
}
