package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Identifier canonicalizes a patient identifier read from a cell. Leading and
// trailing whitespace is dropped, and integral numeric renderings such as
// "1001.0" or "1.001E3" collapse to "1001" so that a UHID typed as a number
// in one sheet and as text in another still joins. Plain digit strings are
// returned as-is, leading zeros included.
func Identifier(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !looksNumeric(s) || !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// Text trims a free-text cell.
func Text(s string) string {
	return strings.TrimSpace(s)
}

func looksNumeric(s string) bool {
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
		case (r == '-' || r == '+') && i == 0:
		case r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return true
}
