package fixture

import (
	"fmt"
	"math"

	"github.com/gyeh/billclaims/internal/model"
)

// BillingWorkbook returns a billing workbook with two patients. UH1001 carries
// a duplicated pharmacy line; UH1002 has no Summary row and no name.
func BillingWorkbook() Workbook {
	return Workbook{Sheets: []Sheet{
		{
			Name:   model.ChargesSheet.Name,
			Header: model.ChargesSheet.Required,
			Rows: [][]any{
				{"UH1001", "Room Rent", "Single AC", 1, 1000, 1000, "01-03-2024"},
				{"UH1001", "Pharmacy", "Medicines", 1, 500, 500, "01-03-2024"},
				{"UH1001", "Pharmacy", "Medicines", 1, 500, 500, "02-03-2024"},
				{"UH1002", "Investigations", "CBC", 2, 150, 300, "03-03-2024"},
				{"UH1002", "Nursing", "Night care", 1, 250.5, 250.5, "03-03-2024"},
			},
		},
		{
			Name:   model.BillingSummarySheet.Name,
			Header: []string{model.ColUHID, model.ColDiscount, model.ColAdvancePaid},
			Rows: [][]any{
				{"UH1001", 100, 500},
			},
		},
		{
			Name:   model.PatientSheet.Name,
			Header: []string{model.ColUHID, model.ColPatientName},
			Rows: [][]any{
				{"UH1001", "Asha Menon"},
			},
		},
	}}
}

// ClaimPatient describes one synthetic claims patient.
type ClaimPatient struct {
	UHID    string
	Name    string
	Lines   [][2]any // head, amount
	Paid    float64
	Insurer string
}

// DefaultClaimPatients is the patient set used by ClaimsWorkbook when none
// is given.
var DefaultClaimPatients = []ClaimPatient{
	{
		UHID:    "P1",
		Name:    "Ravi Kumar",
		Insurer: "Star Health",
		Lines: [][2]any{
			{"Pharmacy & Consumables", 1200},
			{"Room Rent", 1000},
			{"Investigations", 800},
		},
		Paid: 500,
	},
	{
		UHID:    "P2",
		Name:    "Meera Iyer",
		Insurer: "ICICI Lombard",
		Lines: [][2]any{
			{"Nursing", 300},
			{"Miscellaneous", 200},
		},
	},
}

// ClaimsWorkbook returns a four-part claims workbook for patients.
func ClaimsWorkbook(patients ...ClaimPatient) Workbook {
	if len(patients) == 0 {
		patients = DefaultClaimPatients
	}
	partA := Sheet{
		Name: model.PatientHospitalSheet.Name,
		Header: []string{
			model.ColUHID, model.ColPatientName, model.ColPolicyNo, model.ColInsurer,
			model.ColInsuranceType, model.ColHospital, model.ColNABHNo,
			model.ColAdmissionDate, model.ColDischargeDate, model.ColHospitalizationReason,
		},
	}
	partB := Sheet{
		Name: model.DiagnosisSheet.Name,
		Header: []string{
			model.ColUHID, model.ColDiagnosisCode, model.ColProcedure,
			model.ColPhysician, model.ColEventDate,
		},
	}
	partC := Sheet{
		Name:   model.BillSummarySheet.Name,
		Header: []string{model.ColUHID, model.ColHead, model.ColDescription, model.ColAmount},
	}
	partD := Sheet{
		Name: model.ClaimSheet.Name,
		Header: []string{
			model.ColUHID, model.ColBillSubtotal, model.ColGST, model.ColDiscount,
			model.ColTotalClaimed, model.ColAmountPaidByPatient, model.ColAmountClaimedFromInsurer,
		},
	}

	for i, p := range patients {
		partA.Rows = append(partA.Rows, []any{
			p.UHID, p.Name, fmt.Sprintf("POL-%04d", i+1), p.Insurer, "Cashless",
			"City General Hospital", "NABH-2021-0042", "01-03-2024", "05-03-2024", "Observation",
		})
		partB.Rows = append(partB.Rows, []any{p.UHID, "I21.9", "Angiography", "Dr. Rao", "02-03-2024"})

		var subtotal float64
		for _, l := range p.Lines {
			partC.Rows = append(partC.Rows, []any{p.UHID, l[0], "", l[1]})
			subtotal += toFloat(l[1])
		}
		gst := math.Round(subtotal*5) / 100
		total := subtotal + gst
		partD.Rows = append(partD.Rows, []any{p.UHID, subtotal, gst, 0, total, p.Paid, total - p.Paid})
	}
	return Workbook{Sheets: []Sheet{partA, partB, partC, partD}}
}

// ClaimsArchive returns a ZIP holding one claims workbook per group of
// patients, named claims_1.xlsx, claims_2.xlsx and so on.
func ClaimsArchive(groups ...[]ClaimPatient) ([]byte, error) {
	if len(groups) == 0 {
		groups = [][]ClaimPatient{DefaultClaimPatients}
	}
	members := make([]Member, 0, len(groups))
	for i, g := range groups {
		data, err := ClaimsWorkbook(g...).Bytes()
		if err != nil {
			return nil, err
		}
		members = append(members, Member{Name: fmt.Sprintf("claims_%d.xlsx", i+1), Data: data})
	}
	return Zip(members)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
