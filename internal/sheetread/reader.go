// Package sheetread loads billing and claims workbooks into typed records.
package sheetread

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/gyeh/billclaims/internal/model"
	"github.com/gyeh/billclaims/internal/normalize"
	"github.com/gyeh/billclaims/internal/recordset"
)

// Workbook wraps an open excelize file.
type Workbook struct {
	name string
	file *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{name: path, file: f}, nil
}

// OpenReader reads a workbook from r. name is used in error messages and
// results only.
func OpenReader(name string, r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	return &Workbook{name: name, file: f}, nil
}

// Name returns the path or name the workbook was opened with.
func (w *Workbook) Name() string { return w.name }

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Data is everything read from one workbook. Rows that failed to parse are
// left out of the record slices and reported in RowErrors.
type Data struct {
	Source    string
	Patients  []model.PatientInfo
	Diagnoses []model.Diagnosis
	Charges   []model.ChargeLine
	Summaries []model.BillingSummary
	Claims    []model.ClaimRecord
	RowErrors []*model.RowError
	RowsRead  int
}

// ReadBilling reads the Charges_Itemized, Summary and Patient sheets.
func (w *Workbook) ReadBilling() (*Data, error) {
	d := &Data{Source: w.name}

	tables, err := w.tables(model.BillingSheets)
	if err != nil {
		return nil, err
	}
	charges, summary, patients := tables[0], tables[1], tables[2]

	charges.each(d, func(r row) error {
		line, err := chargeLine(r)
		if err != nil {
			return err
		}
		d.Charges = append(d.Charges, line)
		return nil
	})

	summary.each(d, func(r row) error {
		discount, err := r.amount(model.ColDiscount)
		if err != nil {
			return err
		}
		advance, err := r.amount(model.ColAdvancePaid)
		if err != nil {
			return err
		}
		d.Summaries = append(d.Summaries, model.BillingSummary{
			Identifier:  r.id,
			Discount:    discount,
			AdvancePaid: advance,
		})
		return nil
	})

	patients.each(d, func(r row) error {
		d.Patients = append(d.Patients, model.PatientInfo{
			Identifier: r.id,
			Name:       r.text(model.ColPatientName),
		})
		return nil
	})
	return d, nil
}

// ReadClaims reads the four PartA..PartD sheets of a claims workbook.
func (w *Workbook) ReadClaims() (*Data, error) {
	d := &Data{Source: w.name}

	tables, err := w.tables(model.ClaimSheets)
	if err != nil {
		return nil, err
	}
	partA, partB, partC, partD := tables[0], tables[1], tables[2], tables[3]

	partA.each(d, func(r row) error {
		p := model.PatientInfo{
			Identifier:            r.id,
			Name:                  r.text(model.ColPatientName),
			PolicyNumber:          r.text(model.ColPolicyNo),
			Insurer:               r.text(model.ColInsurer),
			InsuranceType:         r.text(model.ColInsuranceType),
			Hospital:              r.text(model.ColHospital),
			NABHNumber:            r.text(model.ColNABHNo),
			AdmissionDate:         r.text(model.ColAdmissionDate),
			DischargeDate:         r.text(model.ColDischargeDate),
			HospitalizationReason: r.text(model.ColHospitalizationReason),
		}
		p.AdmittedOn = normalize.ParseDate(p.AdmissionDate)
		p.DischargedOn = normalize.ParseDate(p.DischargeDate)
		d.Patients = append(d.Patients, p)
		return nil
	})

	partB.each(d, func(r row) error {
		d.Diagnoses = append(d.Diagnoses, model.Diagnosis{
			Identifier:    r.id,
			DiagnosisCode: normalize.DiagnosisCode(r.text(model.ColDiagnosisCode)),
			Procedure:     r.text(model.ColProcedure),
			Physician:     r.text(model.ColPhysician),
			Date:          r.text(model.ColEventDate),
		})
		return nil
	})

	partC.each(d, func(r row) error {
		amount, err := r.amount(model.ColAmount)
		if err != nil {
			return err
		}
		d.Charges = append(d.Charges, model.ChargeLine{
			Identifier:  r.id,
			Category:    r.text(model.ColHead),
			Description: r.text(model.ColDescription),
			Amount:      amount,
			SourceRow:   r.num,
		})
		return nil
	})

	partD.each(d, func(r row) error {
		c := model.ClaimRecord{Identifier: r.id}
		fields := []struct {
			col string
			dst *decimal.Decimal
		}{
			{model.ColBillSubtotal, &c.BillSubtotal},
			{model.ColGST, &c.GST},
			{model.ColDiscount, &c.Discount},
			{model.ColTotalClaimed, &c.TotalClaimed},
			{model.ColAmountPaidByPatient, &c.AmountPaidByPatient},
			{model.ColAmountClaimedFromInsurer, &c.AmountClaimedFromInsurer},
		}
		for _, f := range fields {
			v, err := r.amount(f.col)
			if err != nil {
				return err
			}
			*f.dst = v
		}
		d.Claims = append(d.Claims, c)
		return nil
	})
	return d, nil
}

// tables loads specs in order, stopping at the first schema error.
func (w *Workbook) tables(specs []model.SheetSpec) ([]*table, error) {
	out := make([]*table, len(specs))
	for i, spec := range specs {
		t, err := w.table(spec)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func chargeLine(r row) (model.ChargeLine, error) {
	qty, err := r.amount(model.ColQty)
	if err != nil {
		return model.ChargeLine{}, err
	}
	rate, err := r.amount(model.ColRate)
	if err != nil {
		return model.ChargeLine{}, err
	}
	amount, err := r.amount(model.ColAmount)
	if err != nil {
		return model.ChargeLine{}, err
	}
	return model.ChargeLine{
		Identifier:  r.id,
		Category:    r.text(model.ColHead),
		Description: r.text(model.ColDescription),
		Quantity:    qty,
		Rate:        rate,
		Amount:      amount,
		Date:        r.text(model.ColDate),
		SourceRow:   r.num,
	}, nil
}

// Input returns the records as joiner input.
func (d *Data) Input() recordset.Input {
	return recordset.Input{
		Patients:  d.Patients,
		Diagnoses: d.Diagnoses,
		Charges:   d.Charges,
		Summaries: d.Summaries,
		Claims:    d.Claims,
	}
}
