package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gyeh/billclaims/internal/process"
)

// ClaimsCSVHeader is the header row of Insurance_Claims_Summary.csv.
var ClaimsCSVHeader = []string{
	"UHID", "Patient Name", "Policy No", "Insurer", "Bill Subtotal", "GST", "Discount",
	"Total Claimed", "Amount Paid by Patient", "Original Claimed from Insurer",
	"Authorized Claimed from Insurer", "Balance Due from Insurer", "Claim Status",
}

// BillingCSVHeader is the header row of Billing_Summary.csv.
var BillingCSVHeader = []string{
	"UHID", "Patient Name", "Subtotal", "GST", "Discount", "Advance Paid",
	"Grand Total", "Total Paid", "Balance Due", "Errors",
}

// WriteClaimsCSV writes one row per adjudicated patient. Amounts are plain
// two-decimal numbers so the file stays machine readable.
func WriteClaimsCSV(w io.Writer, batch *process.ClaimsBatch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ClaimsCSVHeader); err != nil {
		return fmt.Errorf("write claims csv header: %w", err)
	}
	for _, r := range batch.Results {
		c, s := r.Claim, r.Summary
		row := []string{
			r.Identifier,
			r.Patient.Name,
			r.Patient.PolicyNumber,
			r.Patient.Insurer,
			c.BillSubtotal.StringFixed(2),
			c.GST.StringFixed(2),
			c.Discount.StringFixed(2),
			c.TotalClaimed.StringFixed(2),
			s.AmountPaidByPatient.StringFixed(2),
			c.AmountClaimedFromInsurer.StringFixed(2),
			s.AuthorizedTotal.StringFixed(2),
			s.BalanceDueFromInsurer.StringFixed(2),
			string(s.OverallStatus),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write claims csv row %s: %w", r.Identifier, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBillingCSV writes one row per billed patient.
func WriteBillingCSV(w io.Writer, batch *process.BillingBatch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(BillingCSVHeader); err != nil {
		return fmt.Errorf("write billing csv header: %w", err)
	}
	for _, r := range batch.Results {
		t := r.Totals
		row := []string{
			r.Identifier,
			r.PatientName,
			t.Subtotal.StringFixed(2),
			t.GST.StringFixed(2),
			t.Discount.StringFixed(2),
			t.AdvancePaid.StringFixed(2),
			t.GrandTotal.StringFixed(2),
			t.TotalPaid.StringFixed(2),
			t.BalanceDue.StringFixed(2),
			fmt.Sprint(len(t.Errors)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write billing csv row %s: %w", r.Identifier, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
