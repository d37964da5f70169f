// Package numparse converts display-formatted numeric strings into canonical
// float64 values. POS exports carry the same logical amount in many locale
// renderings ("2.990,80", "2,990.80", "367,40", "2 990,80", "£2,990.80"), so
// parsing classifies separators by count and position instead of assuming a
// locale. Parse is total: any indeterminate input yields 0, never an error.
package numparse

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseValue normalizes an already-typed cell value. Numeric inputs pass
// through (NaN coerced to 0), strings go through Parse, anything else is 0.
func ParseValue(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return Safe(n)
	case float32:
		return Safe(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return Parse(n)
	default:
		return 0
	}
}

// Safe coerces NaN and infinities to 0.
func Safe(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Parse converts a display-formatted numeric string into a float64.
//
// Rules, applied in order:
//  1. dot and comma present, comma after the last dot: dots are grouping,
//     comma is the decimal separator
//  2. single comma, no dot, 1-2 digits after it: comma is decimal
//  3. commas and a single dot, dot after the last comma: commas are grouping
//  4. mixed separators with no clear winner: the last separator is decimal,
//     every earlier one is grouping
//  5. single dot: decimal when 1-2 digits follow, grouping otherwise
//  6. single comma: same logic as 5
//
// A lone separator trailed by exactly three digits reads as thousands
// grouping ("1,200" is twelve hundred, not 1.2).
//  7. last resort: drop everything but digits, separators and minus, retry 4
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	cleaned := stripDisplay(s)
	if cleaned == "" {
		return 0
	}

	dots := strings.Count(cleaned, ".")
	commas := strings.Count(cleaned, ",")

	if dots == 0 && commas == 0 {
		return parseFloat(cleaned)
	}

	if v, ok := classify(cleaned, dots, commas); ok {
		return v
	}

	// Rule 7: strip any residual junk and let the last separator win.
	stripped := keepNumericRunes(cleaned)
	if stripped == "" {
		return 0
	}
	return parseFloat(lastSeparatorWins(stripped))
}

func classify(s string, dots, commas int) (float64, bool) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	// Rule 1: "2.990,80" style.
	case dots >= 1 && commas == 1 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
		return parseFloat(s), true

	// Rule 2: "367,40" style.
	case commas == 1 && dots == 0 && decimalTail(s, lastComma):
		return parseFloat(strings.Replace(s, ",", ".", 1)), true

	// Rule 3: "2,990.80" style.
	case commas >= 1 && dots == 1 && lastDot > lastComma:
		return parseFloat(strings.ReplaceAll(s, ",", "")), true

	// Rule 4: mixed separators, no single winner.
	case dots >= 1 && commas >= 1:
		return parseFloat(lastSeparatorWins(s)), true

	// Rule 5: single dot only.
	case dots == 1 && commas == 0:
		if decimalTail(s, lastDot) {
			return parseFloat(s), true
		}
		return parseFloat(strings.ReplaceAll(s, ".", "")), true

	// Rule 6: single comma only, not a decimal tail.
	case commas == 1 && dots == 0:
		return parseFloat(strings.ReplaceAll(s, ",", "")), true

	// Repeated same-kind separators can only be grouping.
	case dots > 1 && commas == 0:
		return parseFloat(strings.ReplaceAll(s, ".", "")), true
	case commas > 1 && dots == 0:
		return parseFloat(strings.ReplaceAll(s, ",", "")), true
	}

	return 0, false
}

// decimalTail reports whether sep is followed by 1-2 digits and nothing else.
func decimalTail(s string, sep int) bool {
	tail := s[sep+1:]
	if len(tail) < 1 || len(tail) > 2 {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// lastSeparatorWins treats the final dot or comma as the decimal separator
// and strips every earlier separator of either kind.
func lastSeparatorWins(s string) string {
	last := strings.LastIndexAny(s, ".,")
	if last == -1 {
		return s
	}
	head := strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, s[:last])
	return head + "." + s[last+1:]
}

// stripDisplay removes whitespace, currency symbols and currency-code letters.
func stripDisplay(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return -1
		case unicode.Is(unicode.Sc, r):
			return -1
		case unicode.IsLetter(r):
			return -1
		}
		return r
	}, s)
}

// keepNumericRunes drops everything except digits, separators and minus.
func keepNumericRunes(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			return r
		}
		return -1
	}, s)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Safe(v)
}
