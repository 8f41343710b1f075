package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeLine is a single itemized charge for one patient. Category is the
// "Head" column of the source sheet.
type ChargeLine struct {
	Identifier  string          `json:"uhid"`
	Category    string          `json:"head"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`

	// SourceRow is the 1-based sheet row the line was read from, 0 when the
	// line did not come from a sheet.
	SourceRow int `json:"-"`
}

// BillingSummary carries the per-patient payment adjustments from the
// billing "Summary" sheet. Fields absent in the source are zero.
type BillingSummary struct {
	Identifier  string          `json:"uhid"`
	Discount    decimal.Decimal `json:"discount"`
	AdvancePaid decimal.Decimal `json:"advance_paid"`
}

// ClaimRecord is the per-patient row of the claims "PartD_Claim" sheet.
// Fields absent in the source are zero.
type ClaimRecord struct {
	Identifier               string          `json:"uhid"`
	BillSubtotal             decimal.Decimal `json:"bill_subtotal"`
	GST                      decimal.Decimal `json:"gst"`
	Discount                 decimal.Decimal `json:"discount"`
	TotalClaimed             decimal.Decimal `json:"total_claimed"`
	AmountPaidByPatient      decimal.Decimal `json:"amount_paid_by_patient"`
	AmountClaimedFromInsurer decimal.Decimal `json:"amount_claimed_from_insurer"`
}

// PatientInfo is the patient and hospital record ("PartA_PatientHospital"
// for claims, "Patient" for billing where only Name is populated).
type PatientInfo struct {
	Identifier            string     `json:"uhid"`
	Name                  string     `json:"patient_name"`
	PolicyNumber          string     `json:"policy_no,omitempty"`
	Insurer               string     `json:"insurer,omitempty"`
	InsuranceType         string     `json:"insurance_type,omitempty"`
	Hospital              string     `json:"hospital,omitempty"`
	NABHNumber            string     `json:"nabh_no,omitempty"`
	AdmissionDate         string     `json:"admission_date,omitempty"`
	DischargeDate         string     `json:"discharge_date,omitempty"`
	HospitalizationReason string     `json:"hospitalization_reason,omitempty"`
	AdmittedOn            *time.Time `json:"-"`
	DischargedOn          *time.Time `json:"-"`
}

// Diagnosis is one "PartB_Diagnosis" row.
type Diagnosis struct {
	Identifier    string `json:"uhid"`
	DiagnosisCode string `json:"diagnosis_code"`
	Procedure     string `json:"procedure"`
	Physician     string `json:"physician"`
	Date          string `json:"date"`
}
