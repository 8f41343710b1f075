package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gyeh/billclaims/internal/model"
	"github.com/gyeh/billclaims/internal/process"
)

// WriteBilling prints every patient of a billing batch, followed by the
// patients that could not be billed.
func WriteBilling(w io.Writer, batch *process.BillingBatch) error {
	for _, r := range batch.Results {
		if err := writeBillingPatient(w, r); err != nil {
			return err
		}
	}
	if len(batch.Failures) > 0 {
		fmt.Fprintln(w, "\n--- Patients Not Billed ---")
		for _, f := range batch.Failures {
			fmt.Fprintf(w, " - %s: %s\n", f.Identifier, f.Reason)
		}
	}
	return nil
}

func writeBillingPatient(w io.Writer, r model.BillingResult) error {
	t := r.Totals
	fmt.Fprintf(w, "\n--- Billing for Patient: %s (UHID: %s) ---\n", r.PatientName, r.Identifier)
	fmt.Fprintf(w, "Subtotal: %s\n", Currency(t.Subtotal))
	fmt.Fprintf(w, "GST: %s\n", Currency(t.GST))
	fmt.Fprintf(w, "Discount: %s\n", Currency(t.Discount))
	fmt.Fprintf(w, "Advance Paid: %s\n", Currency(t.AdvancePaid))
	fmt.Fprintf(w, "Grand Total: %s\n", Currency(t.GrandTotal))
	fmt.Fprintf(w, "Total Paid: %s\n", Currency(t.TotalPaid))
	fmt.Fprintf(w, "Balance Due: %s\n\n", Currency(t.BalanceDue))

	fmt.Fprintln(w, "Itemized Charges:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Head\tDescription\tQty\tRate\tAmount\tDate")
	for _, c := range t.CleanedCharges {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Category, c.Description, c.Quantity.String(), Currency(c.Rate), Currency(c.Amount), c.Date)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write itemized charges: %w", err)
	}

	if len(t.Errors) > 0 {
		fmt.Fprintln(w, "\nBilling Errors Detected:")
		for _, e := range t.Errors {
			fmt.Fprintf(w, " - %s\n", e)
		}
		return nil
	}
	_, err := fmt.Fprintln(w, "\nInfo: Patient billing is clean.")
	return err
}

// ClaimText renders the per-patient claim report.
func ClaimText(r model.ClaimResult) string {
	p := r.Patient
	var b strings.Builder
	fmt.Fprintf(&b, "--- Insurance Claim for Patient: %s (UHID: %s) ---\n", p.Name, r.Identifier)
	fmt.Fprintf(&b, "Policy No: %s   Insurer: %s   Type: %s\n", p.PolicyNumber, p.Insurer, p.InsuranceType)
	fmt.Fprintf(&b, "Hospital: %s (NABH: %s)\n", p.Hospital, p.NABHNumber)
	fmt.Fprintf(&b, "Admission: %s  |  Discharge: %s\n", p.AdmissionDate, p.DischargeDate)
	fmt.Fprintf(&b, "Hospitalization Reason: %s\n", p.HospitalizationReason)

	b.WriteString("\n--- Diagnosis & Procedures ---\n")
	for _, d := range r.Diagnoses {
		fmt.Fprintf(&b, "%s : %s by %s on %s\n", d.DiagnosisCode, d.Procedure, d.Physician, d.Date)
	}

	b.WriteString("\n--- Itemized Bill (Authorized Amounts) ---\n")
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "%s: %s (%s: %s)\n", l.Category, Currency(l.Amount), l.Status, Currency(l.AuthorizedAmount))
	}
	if len(r.Errors) > 0 {
		b.WriteString("\n--- Data Quality ---\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, " - %s\n", e)
		}
	}

	c, s := r.Claim, r.Summary
	b.WriteString("\n--- Claim Summary ---\n")
	fmt.Fprintf(&b, "Bill Subtotal: %s\n", Currency(c.BillSubtotal))
	fmt.Fprintf(&b, "GST: %s\n", Currency(c.GST))
	fmt.Fprintf(&b, "Discount: %s\n", Currency(c.Discount))
	fmt.Fprintf(&b, "Total Claimed: %s\n", Currency(c.TotalClaimed))
	fmt.Fprintf(&b, "Amount Paid by Patient: %s\n", Currency(s.AmountPaidByPatient))
	fmt.Fprintf(&b, "Original Amount Claimed from Insurer: %s\n", Currency(c.AmountClaimedFromInsurer))
	fmt.Fprintf(&b, "Authorized Amount Claimed from Insurer: %s\n", Currency(s.AuthorizedTotal))
	fmt.Fprintf(&b, "Balance Due from Insurer: %s\n", Currency(s.BalanceDueFromInsurer))
	fmt.Fprintf(&b, "Pre-Auth Status: %s\n", s.OverallStatus)
	return b.String()
}
