package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Cents converts a decimal amount to integer cents, rounding half away from
// zero.
func Cents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FromCents is the inverse of Cents.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// ParseAmount parses a money cell. Blank cells are zero. Thousands
// separators, a leading currency symbol and surrounding whitespace are
// tolerated; a parenthesized value is negative.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.TrimLeft(s, "₹$ ")
	s = strings.TrimPrefix(s, "Rs.")
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
