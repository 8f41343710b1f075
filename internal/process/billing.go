package process

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/billclaims/internal/billing"
	"github.com/gyeh/billclaims/internal/model"
	"github.com/gyeh/billclaims/internal/recordset"
	"github.com/gyeh/billclaims/internal/sheetread"
)

// UnknownPatient is the name reported when a billing workbook has no
// Patient row for an identifier.
const UnknownPatient = "Unknown"

// BillingBatch is the outcome of one billing workbook.
type BillingBatch struct {
	RunID    string                 `json:"run_id"`
	Results  []model.BillingResult  `json:"results"`
	Failures []model.PatientFailure `json:"failures"`
	Summary  model.RunSummary       `json:"-"`
}

// RunBilling reads a billing workbook and bills every patient found on its
// charges sheet, in the order they first appear. A schema error is fatal;
// a bad row or an engine error fails only its patient.
func RunBilling(ctx context.Context, log zerolog.Logger, engine *billing.Engine, in Input) (*BillingBatch, error) {
	totalStart := time.Now()
	batch := &BillingBatch{
		RunID:    uuid.NewString(),
		Results:  []model.BillingResult{},
		Failures: []model.PatientFailure{},
	}
	log = log.With().Str("run_id", batch.RunID).Logger()
	sum := &batch.Summary
	sum.RunID, sum.Kind, sum.FilePath = batch.RunID, "billing", in.display()
	sum.TaxRate = engine.Policy().TaxRate()

	// Phase 1: read
	log.Info().Str("file", in.display()).Msg("reading billing workbook")
	data, hash, err := in.load()
	if err != nil {
		return nil, &PipelineError{Phase: PhaseRead, Err: err}
	}
	sum.FileSHA256 = hash

	wb, err := sheetread.OpenReader(in.Name, bytes.NewReader(data))
	if err != nil {
		return nil, &PipelineError{Phase: PhaseRead, Err: err}
	}
	defer wb.Close()

	// Phase 2: validate
	d, err := wb.ReadBilling()
	if err != nil {
		var se *model.SchemaError
		if errors.As(err, &se) {
			return nil, &PipelineError{Phase: PhaseValidate, Err: err}
		}
		return nil, &PipelineError{Phase: PhaseRead, Err: err}
	}
	sum.Workbooks = 1
	sum.ChargeLinesRead = len(d.Charges)
	sum.DurationRead = time.Since(totalStart)

	// Phase 3: process
	processStart := time.Now()
	rs := recordset.New(d.Input())
	poisoned := groupRowErrors(d.RowErrors)
	ids := appendMissing(rs.ChargeIdentifiers(), poisoned.order)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, &PipelineError{Phase: PhaseProcess, Err: err}
		}
		sum.PatientsSeen++

		if reason, bad := poisoned.reason(id); bad {
			batch.fail(log, model.PatientFailure{Identifier: id, Reason: reason})
			continue
		}

		charges := rs.Charges(id)
		totals, err := engine.Bill(id, charges, rs.Summary(id))
		if err != nil {
			batch.fail(log, model.PatientFailure{Identifier: id, Reason: err.Error()})
			continue
		}

		name := UnknownPatient
		if p, err := rs.PatientInfo(id); err == nil && p.Name != "" {
			name = p.Name
		}

		auditBilling(log, id, totals)
		sum.DuplicatesDropped += len(charges) - len(totals.CleanedCharges)
		sum.PatientsProcessed++
		batch.Results = append(batch.Results, model.BillingResult{
			Identifier:  id,
			PatientName: name,
			Totals:      totals,
		})
	}
	sum.PatientsFailed = len(batch.Failures)
	sum.DurationProcess = time.Since(processStart)
	sum.DurationTotal = time.Since(totalStart)

	log.Info().
		Int("patients", sum.PatientsProcessed).
		Int("failed", sum.PatientsFailed).
		Int("duplicates_dropped", sum.DuplicatesDropped).
		Str("total_duration", sum.DurationTotal.String()).
		Msg("billing run complete")
	return batch, nil
}

func (b *BillingBatch) fail(log zerolog.Logger, f model.PatientFailure) {
	log.Warn().Str("uhid", f.Identifier).Str("reason", f.Reason).Msg("patient failed")
	b.Failures = append(b.Failures, f)
}

// Partial reports whether any patient failed.
func (b *BillingBatch) Partial() bool { return len(b.Failures) > 0 }

// auditBilling logs one error event per diagnostic, or a single info event
// when the bill is clean.
func auditBilling(log zerolog.Logger, id string, totals model.BillingTotals) {
	if len(totals.Errors) == 0 {
		log.Info().
			Str("uhid", id).
			Str("grand_total", totals.GrandTotal.StringFixed(2)).
			Str("balance_due", totals.BalanceDue.StringFixed(2)).
			Msg("billing processed")
		return
	}
	for _, e := range totals.Errors {
		log.Error().Str("uhid", id).Msg(e)
	}
}
