package process

import (
	"github.com/gyeh/billclaims/internal/model"
	"github.com/gyeh/billclaims/internal/normalize"
)

// Rows flattens the batch into fixed-point rows for export and persistence.
func (b *BillingBatch) Rows() []model.BillingTotalsRow {
	rows := make([]model.BillingTotalsRow, 0, len(b.Results))
	for _, r := range b.Results {
		t := r.Totals
		rows = append(rows, model.BillingTotalsRow{
			RunID:            b.RunID,
			UHID:             r.Identifier,
			PatientName:      r.PatientName,
			SubtotalCents:    normalize.Cents(t.Subtotal),
			GSTCents:         normalize.Cents(t.GST),
			DiscountCents:    normalize.Cents(t.Discount),
			AdvancePaidCents: normalize.Cents(t.AdvancePaid),
			GrandTotalCents:  normalize.Cents(t.GrandTotal),
			BalanceDueCents:  normalize.Cents(t.BalanceDue),
			ChargeLines:      int32(len(t.CleanedCharges)),
			Duplicates:       int32(len(t.Errors)),
		})
	}
	return rows
}

// SummaryRows returns one row per adjudicated patient.
func (b *ClaimsBatch) SummaryRows() []model.ClaimSummaryRow {
	rows := make([]model.ClaimSummaryRow, 0, len(b.Results))
	for _, r := range b.Results {
		rows = append(rows, model.ClaimSummaryRow{
			RunID:                      b.RunID,
			UHID:                       r.Identifier,
			SourceFile:                 r.SourceFile,
			PatientName:                r.Patient.Name,
			PolicyNo:                   r.Patient.PolicyNumber,
			Insurer:                    r.Patient.Insurer,
			BillSubtotalCents:          normalize.Cents(r.Claim.BillSubtotal),
			GSTCents:                   normalize.Cents(r.Claim.GST),
			DiscountCents:              normalize.Cents(r.Claim.Discount),
			TotalClaimedCents:          normalize.Cents(r.Claim.TotalClaimed),
			AmountPaidByPatientCents:   normalize.Cents(r.Summary.AmountPaidByPatient),
			OriginalClaimedCents:       normalize.Cents(r.Claim.AmountClaimedFromInsurer),
			AuthorizedClaimedCents:     normalize.Cents(r.Summary.AuthorizedTotal),
			BalanceDueFromInsurerCents: normalize.Cents(r.Summary.BalanceDueFromInsurer),
			ClaimStatus:                string(r.Summary.OverallStatus),
			AdmissionDate:              r.Patient.AdmittedOn,
			DischargeDate:              r.Patient.DischargedOn,
		})
	}
	return rows
}

// LineRows returns one row per adjudicated claim line, numbered from 1
// within each patient of each workbook.
func (b *ClaimsBatch) LineRows() []model.ClaimLineRow {
	var rows []model.ClaimLineRow
	for _, r := range b.Results {
		for i, l := range r.Lines {
			rows = append(rows, model.ClaimLineRow{
				RunID:                 b.RunID,
				UHID:                  r.Identifier,
				SourceFile:            r.SourceFile,
				LineNumber:            int32(i + 1),
				Head:                  l.Category,
				Description:           l.Description,
				AmountCents:           normalize.Cents(l.Amount),
				PreAuthStatus:         string(l.Status),
				AuthorizedAmountCents: normalize.Cents(l.AuthorizedAmount),
			})
		}
	}
	return rows
}

// FailureRows returns one row per failed patient.
func (b *BillingBatch) FailureRows() []model.FailureRow {
	return failureRows(b.RunID, b.Failures)
}

// FailureRows returns one row per failed patient or workbook.
func (b *ClaimsBatch) FailureRows() []model.FailureRow {
	return failureRows(b.RunID, b.Failures)
}

func failureRows(runID string, failures []model.PatientFailure) []model.FailureRow {
	rows := make([]model.FailureRow, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, model.FailureRow{
			RunID:      runID,
			UHID:       f.Identifier,
			SourceFile: f.SourceFile,
			Reason:     f.Reason,
		})
	}
	return rows
}
