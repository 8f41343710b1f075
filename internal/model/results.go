package model

import "github.com/shopspring/decimal"

// PreAuthStatus is the pre-authorization outcome of a claim line, and also
// the overall status of a claim.
type PreAuthStatus string

const (
	StatusApproved PreAuthStatus = "Approved"
	StatusPartial  PreAuthStatus = "Partial"
	StatusRejected PreAuthStatus = "Rejected"
	StatusPending  PreAuthStatus = "Pending"
)

// BillingTotals is the computed bill for one patient.
type BillingTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	GST         decimal.Decimal `json:"gst"`
	Discount    decimal.Decimal `json:"discount"`
	AdvancePaid decimal.Decimal `json:"advance_paid"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	BalanceDue  decimal.Decimal `json:"balance_due"`

	// Errors holds data-quality diagnostics such as duplicate charge lines.
	// They never stop the bill from being computed.
	Errors []string `json:"errors"`

	CleanedCharges []ChargeLine `json:"charges"`
}

// ClaimLineOutcome is the adjudicated form of one claim line. The source
// ChargeLine is left untouched.
type ClaimLineOutcome struct {
	Category         string          `json:"head"`
	Description      string          `json:"description,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Status           PreAuthStatus   `json:"pre_auth_status"`
	AuthorizedAmount decimal.Decimal `json:"authorized_amount"`
}

// ClaimSummary aggregates the adjudicated lines of one patient.
type ClaimSummary struct {
	AuthorizedTotal       decimal.Decimal `json:"authorized_total"`
	AmountPaidByPatient   decimal.Decimal `json:"amount_paid_by_patient"`
	BalanceDueFromInsurer decimal.Decimal `json:"balance_due_from_insurer"`
	OverallStatus         PreAuthStatus   `json:"overall_status"`
}

// BillingResult is one patient's entry in a billing batch.
type BillingResult struct {
	Identifier  string        `json:"uhid"`
	PatientName string        `json:"patient_name"`
	Totals      BillingTotals `json:"totals"`
}

// ClaimResult is one patient's entry in a claims batch.
type ClaimResult struct {
	Identifier string             `json:"uhid"`
	SourceFile string             `json:"source_file,omitempty"`
	Patient    PatientInfo        `json:"patient"`
	Diagnoses  []Diagnosis        `json:"diagnoses"`
	Lines      []ClaimLineOutcome `json:"lines"`
	Claim      ClaimRecord        `json:"claim"`
	Summary    ClaimSummary       `json:"summary"`
	Errors     []string           `json:"errors"`
}

// PatientFailure records an identifier (or whole workbook, when Identifier
// is empty) that could not be processed. The rest of the batch still runs.
type PatientFailure struct {
	Identifier string `json:"uhid,omitempty"`
	SourceFile string `json:"source_file,omitempty"`
	Reason     string `json:"reason"`
}
