// Package report renders billing and claims batches as text reports, CSV
// summaries and Parquet exports.
package report

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency renders d with thousands separators and two decimals, e.g.
// 1234567.5 -> "1,234,567.50". The value is rounded half away from zero.
func Currency(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var grouped string
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		grouped = printer.Sprintf("%d", n)
	} else {
		grouped = whole
	}

	if d.Round(2).IsNegative() {
		return "-" + grouped + "." + frac
	}
	return grouped + "." + frac
}
