package billing

import (
	"github.com/shopspring/decimal"

	"github.com/gyeh/billclaims/internal/model"
)

// Subtotal sums the line amounts.
func Subtotal(lines []model.ChargeLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount)
	}
	return sum
}

// ComputeTotals derives the bill from already deduplicated charges. A nil
// summary means no discount and no advance payment. GST is the only rounded
// figure; the balance may be negative when a refund is owed.
func ComputeTotals(taxRate decimal.Decimal, cleaned []model.ChargeLine, summary *model.BillingSummary) model.BillingTotals {
	subtotal := Subtotal(cleaned)
	gst := subtotal.Mul(taxRate).Round(2)

	discount, advance := decimal.Zero, decimal.Zero
	if summary != nil {
		discount = summary.Discount
		advance = summary.AdvancePaid
	}

	grand := subtotal.Add(gst).Sub(discount)
	return model.BillingTotals{
		Subtotal:       subtotal,
		GST:            gst,
		Discount:       discount,
		AdvancePaid:    advance,
		GrandTotal:     grand,
		TotalPaid:      advance,
		BalanceDue:     grand.Sub(advance),
		Errors:         []string{},
		CleanedCharges: cleaned,
	}
}
