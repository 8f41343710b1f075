package model

// Column headers as they appear in the source workbooks.
const (
	ColUHID        = "UHID"
	ColHead        = "Head"
	ColDescription = "Description"
	ColQty         = "Qty"
	ColRate        = "Rate"
	ColAmount      = "Amount"
	ColDate        = "Date"

	ColDiscount    = "Discount"
	ColAdvancePaid = "Advance Paid"
	ColPatientName = "Patient Name"

	ColPolicyNo              = "Policy No"
	ColInsurer               = "Insurer/TPA"
	ColInsuranceType         = "Insurance Type"
	ColHospital              = "Hospital"
	ColNABHNo                = "NABH No"
	ColAdmissionDate         = "Admission Date"
	ColDischargeDate         = "Discharge Date"
	ColHospitalizationReason = "Hospitalization Reason"

	ColDiagnosisCode = "Primary Diagnosis (ICD-10)"
	ColProcedure     = "Procedure/Treatment"
	ColPhysician     = "Surgeon/Physician"
	ColEventDate     = "Date of Procedure/Key Event"

	ColBillSubtotal             = "Bill Subtotal"
	ColGST                      = "GST"
	ColTotalClaimed             = "Total Claimed"
	ColAmountPaidByPatient      = "Amount Paid by Patient"
	ColAmountClaimedFromInsurer = "Amount Claimed from Insurer"
)

// SheetSpec describes one sheet of a source workbook.
type SheetSpec struct {
	Name     string
	Required []string // columns that must be present
	Optional bool     // whether the whole sheet may be absent
}

var (
	ChargesSheet = SheetSpec{
		Name:     "Charges_Itemized",
		Required: []string{ColUHID, ColHead, ColDescription, ColQty, ColRate, ColAmount, ColDate},
	}
	BillingSummarySheet = SheetSpec{
		Name:     "Summary",
		Required: []string{ColUHID},
		Optional: true,
	}
	PatientSheet = SheetSpec{
		Name:     "Patient",
		Required: []string{ColUHID},
		Optional: true,
	}

	PatientHospitalSheet = SheetSpec{Name: "PartA_PatientHospital", Required: []string{ColUHID}}
	DiagnosisSheet       = SheetSpec{Name: "PartB_Diagnosis", Required: []string{ColUHID}}
	BillSummarySheet     = SheetSpec{Name: "PartC_BillSummary", Required: []string{ColUHID, ColHead, ColAmount}}
	ClaimSheet           = SheetSpec{
		Name:     "PartD_Claim",
		Required: []string{ColUHID, ColAmountPaidByPatient, ColAmountClaimedFromInsurer},
	}
)

// BillingSheets lists the sheets of a billing workbook in read order.
var BillingSheets = []SheetSpec{ChargesSheet, BillingSummarySheet, PatientSheet}

// ClaimSheets lists the sheets of a claims workbook in read order.
var ClaimSheets = []SheetSpec{PatientHospitalSheet, DiagnosisSheet, BillSummarySheet, ClaimSheet}
