package model

import (
	"time"

	"github.com/google/uuid"
)

// BillingTotalsRow is the flattened, fixed-point form of a BillingResult used
// for both Parquet export and COPY into billing.patient_totals. Money is in
// integer cents.
type BillingTotalsRow struct {
	RunID            string `parquet:"run_id"`
	UHID             string `parquet:"uhid"`
	PatientName      string `parquet:"patient_name"`
	SubtotalCents    int64  `parquet:"subtotal_cents"`
	GSTCents         int64  `parquet:"gst_cents"`
	DiscountCents    int64  `parquet:"discount_cents"`
	AdvancePaidCents int64  `parquet:"advance_paid_cents"`
	GrandTotalCents  int64  `parquet:"grand_total_cents"`
	BalanceDueCents  int64  `parquet:"balance_due_cents"`
	ChargeLines      int32  `parquet:"charge_lines"`
	Duplicates       int32  `parquet:"duplicates"`
}

// BillingTotalsColumns returns the ordered column names for COPY into
// billing.patient_totals.
func BillingTotalsColumns() []string {
	return []string{
		"run_id",
		"uhid",
		"patient_name",
		"subtotal_cents",
		"gst_cents",
		"discount_cents",
		"advance_paid_cents",
		"grand_total_cents",
		"balance_due_cents",
		"charge_lines",
		"duplicates",
	}
}

// CopyValues returns the row values in BillingTotalsColumns order.
func (r *BillingTotalsRow) CopyValues() []any {
	return []any{
		uuid.MustParse(r.RunID),
		r.UHID,
		r.PatientName,
		r.SubtotalCents,
		r.GSTCents,
		r.DiscountCents,
		r.AdvancePaidCents,
		r.GrandTotalCents,
		r.BalanceDueCents,
		r.ChargeLines,
		r.Duplicates,
	}
}

// ClaimSummaryRow is the flattened form of a ClaimResult (one per patient).
type ClaimSummaryRow struct {
	RunID                      string `parquet:"run_id"`
	UHID                       string `parquet:"uhid"`
	SourceFile                 string `parquet:"source_file"`
	PatientName                string `parquet:"patient_name"`
	PolicyNo                   string `parquet:"policy_no"`
	Insurer                    string `parquet:"insurer"`
	BillSubtotalCents          int64  `parquet:"bill_subtotal_cents"`
	GSTCents                   int64  `parquet:"gst_cents"`
	DiscountCents              int64  `parquet:"discount_cents"`
	TotalClaimedCents          int64  `parquet:"total_claimed_cents"`
	AmountPaidByPatientCents   int64  `parquet:"amount_paid_by_patient_cents"`
	OriginalClaimedCents       int64  `parquet:"original_claimed_cents"`
	AuthorizedClaimedCents     int64  `parquet:"authorized_claimed_cents"`
	BalanceDueFromInsurerCents int64  `parquet:"balance_due_from_insurer_cents"`
	ClaimStatus                string `parquet:"claim_status"`

	// Dates stay nil when the cell is blank or not a recognized date.
	AdmissionDate *time.Time `parquet:"admission_date,optional"`
	DischargeDate *time.Time `parquet:"discharge_date,optional"`
}

// ClaimSummaryColumns returns the ordered column names for COPY into
// billing.claim_summaries.
func ClaimSummaryColumns() []string {
	return []string{
		"run_id",
		"uhid",
		"source_file",
		"patient_name",
		"policy_no",
		"insurer",
		"bill_subtotal_cents",
		"gst_cents",
		"discount_cents",
		"total_claimed_cents",
		"amount_paid_by_patient_cents",
		"original_claimed_cents",
		"authorized_claimed_cents",
		"balance_due_from_insurer_cents",
		"claim_status",
		"admission_date",
		"discharge_date",
	}
}

// CopyValues returns the row values in ClaimSummaryColumns order.
func (r *ClaimSummaryRow) CopyValues() []any {
	return []any{
		uuid.MustParse(r.RunID),
		r.UHID,
		r.SourceFile,
		r.PatientName,
		r.PolicyNo,
		r.Insurer,
		r.BillSubtotalCents,
		r.GSTCents,
		r.DiscountCents,
		r.TotalClaimedCents,
		r.AmountPaidByPatientCents,
		r.OriginalClaimedCents,
		r.AuthorizedClaimedCents,
		r.BalanceDueFromInsurerCents,
		r.ClaimStatus,
		r.AdmissionDate,
		r.DischargeDate,
	}
}

// ClaimLineRow is one adjudicated claim line.
type ClaimLineRow struct {
	RunID                 string `parquet:"run_id"`
	UHID                  string `parquet:"uhid"`
	SourceFile            string `parquet:"source_file"`
	LineNumber            int32  `parquet:"line_number"`
	Head                  string `parquet:"head"`
	Description           string `parquet:"description"`
	AmountCents           int64  `parquet:"amount_cents"`
	PreAuthStatus         string `parquet:"pre_auth_status"`
	AuthorizedAmountCents int64  `parquet:"authorized_amount_cents"`
}

// ClaimLineColumns returns the ordered column names for COPY into
// billing.claim_lines.
func ClaimLineColumns() []string {
	return []string{
		"run_id",
		"uhid",
		"source_file",
		"line_number",
		"head",
		"description",
		"amount_cents",
		"pre_auth_status",
		"authorized_amount_cents",
	}
}

// CopyValues returns the row values in ClaimLineColumns order.
func (r *ClaimLineRow) CopyValues() []any {
	return []any{
		uuid.MustParse(r.RunID),
		r.UHID,
		r.SourceFile,
		r.LineNumber,
		r.Head,
		r.Description,
		r.AmountCents,
		r.PreAuthStatus,
		r.AuthorizedAmountCents,
	}
}

// FailureRow records a patient or workbook that could not be processed.
type FailureRow struct {
	RunID      string `parquet:"run_id"`
	UHID       string `parquet:"uhid"`
	SourceFile string `parquet:"source_file"`
	Reason     string `parquet:"reason"`
}

// FailureColumns returns the ordered column names for COPY into
// billing.patient_failures.
func FailureColumns() []string {
	return []string{"run_id", "uhid", "source_file", "reason"}
}

// CopyValues returns the row values in FailureColumns order.
func (r *FailureRow) CopyValues() []any {
	return []any{uuid.MustParse(r.RunID), r.UHID, r.SourceFile, r.Reason}
}
