package process

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/billclaims/internal/billing"
	"github.com/gyeh/billclaims/internal/model"
	"github.com/gyeh/billclaims/internal/recordset"
	"github.com/gyeh/billclaims/internal/sheetread"
)

// ErrNoWorkbooks is returned when an archive holds no .xlsx members.
var ErrNoWorkbooks = errors.New("archive contains no .xlsx workbooks")

// ClaimsBatch is the outcome of one claims upload.
type ClaimsBatch struct {
	RunID    string                 `json:"run_id"`
	Results  []model.ClaimResult    `json:"results"`
	Failures []model.PatientFailure `json:"failures"`
	Summary  model.RunSummary       `json:"-"`
}

// RunClaims adjudicates every patient of a claims upload. The input is a ZIP
// of claims workbooks, or a single workbook when its name ends in .xlsx.
// Each workbook is joined on its own; a schema error fails only that
// workbook.
func RunClaims(ctx context.Context, log zerolog.Logger, engine *billing.Engine, in Input) (*ClaimsBatch, error) {
	totalStart := time.Now()
	batch := &ClaimsBatch{
		RunID:    uuid.NewString(),
		Results:  []model.ClaimResult{},
		Failures: []model.PatientFailure{},
	}
	log = log.With().Str("run_id", batch.RunID).Logger()
	sum := &batch.Summary
	sum.RunID, sum.Kind, sum.FilePath = batch.RunID, "claims", in.display()
	sum.TaxRate = engine.Policy().TaxRate()

	// Phase 1: read
	log.Info().Str("file", in.display()).Msg("reading claims upload")
	data, hash, err := in.load()
	if err != nil {
		return nil, &PipelineError{Phase: PhaseRead, Err: err}
	}
	sum.FileSHA256 = hash

	var members []sheetread.Member
	if in.isWorkbook() {
		members = []sheetread.Member{{Name: in.Name, Data: data}}
	} else if members, err = sheetread.ReadArchive(data); err != nil {
		return nil, &PipelineError{Phase: PhaseRead, Err: err}
	}
	if len(members) == 0 {
		return nil, &PipelineError{Phase: PhaseValidate, Err: ErrNoWorkbooks}
	}
	sum.Workbooks = len(members)
	sum.DurationRead = time.Since(totalStart)

	// Phase 2: process, one workbook at a time
	processStart := time.Now()
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return nil, &PipelineError{Phase: PhaseProcess, Err: err}
		}
		wlog := log.With().Str("workbook", m.Name).Logger()
		d, err := readClaims(m)
		if err != nil {
			batch.fail(wlog, model.PatientFailure{SourceFile: m.Name, Reason: err.Error()})
			continue
		}
		sum.ChargeLinesRead += len(d.Charges)
		if err := batch.adjudicate(ctx, wlog, engine, m.Name, d); err != nil {
			return nil, &PipelineError{Phase: PhaseProcess, Err: err}
		}
	}
	sum.PatientsProcessed = len(batch.Results)
	for _, f := range batch.Failures {
		if f.Identifier != "" {
			sum.PatientsFailed++
		}
	}
	sum.PatientsSeen = sum.PatientsProcessed + sum.PatientsFailed
	sum.DurationProcess = time.Since(processStart)
	sum.DurationTotal = time.Since(totalStart)

	log.Info().
		Int("workbooks", sum.Workbooks).
		Int("patients", sum.PatientsProcessed).
		Int("failed", sum.PatientsFailed).
		Str("total_duration", sum.DurationTotal.String()).
		Msg("claims run complete")
	return batch, nil
}

func readClaims(m sheetread.Member) (*sheetread.Data, error) {
	wb, err := m.Open()
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	d, err := wb.ReadClaims()
	if err != nil {
		return nil, fmt.Errorf("workbook %s: %w", m.Name, err)
	}
	return d, nil
}

// adjudicate runs every patient of one workbook: PartA patients in order,
// then identifiers that only appear on the bill sheet, which fail as not
// found.
func (b *ClaimsBatch) adjudicate(ctx context.Context, log zerolog.Logger, engine *billing.Engine, source string, d *sheetread.Data) error {
	rs := recordset.New(d.Input())
	poisoned := groupRowErrors(d.RowErrors)
	ids := appendMissing(rs.PatientIdentifiers(), rs.Orphans())
	ids = appendMissing(ids, poisoned.order)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		failure := model.PatientFailure{Identifier: id, SourceFile: source}

		if reason, bad := poisoned.reason(id); bad {
			failure.Reason = reason
			b.fail(log, failure)
			continue
		}
		patient, err := rs.PatientInfo(id)
		if err != nil {
			failure.Reason = err.Error()
			b.fail(log, failure)
			continue
		}

		lines := rs.Charges(id)
		claim := rs.Claim(id)
		adj, err := engine.Adjudicate(id, lines, claim)
		if err != nil {
			failure.Reason = err.Error()
			b.fail(log, failure)
			continue
		}

		record := model.ClaimRecord{Identifier: id}
		if claim != nil {
			record = *claim
		}
		for _, e := range adj.Errors {
			log.Error().Str("uhid", id).Msg(e)
		}
		log.Info().
			Str("uhid", id).
			Str("status", string(adj.Summary.OverallStatus)).
			Str("authorized_total", adj.Summary.AuthorizedTotal.StringFixed(2)).
			Msg("claim adjudicated")

		b.Summary.DuplicatesDropped += len(lines) - len(adj.Lines)
		b.Results = append(b.Results, model.ClaimResult{
			Identifier: id,
			SourceFile: source,
			Patient:    patient,
			Diagnoses:  rs.Diagnoses(id),
			Lines:      adj.Lines,
			Claim:      record,
			Summary:    adj.Summary,
			Errors:     adj.Errors,
		})
	}
	return nil
}

func (b *ClaimsBatch) fail(log zerolog.Logger, f model.PatientFailure) {
	log.Warn().Str("uhid", f.Identifier).Str("reason", f.Reason).Msg("claim failed")
	b.Failures = append(b.Failures, f)
}

// Partial reports whether any patient or workbook failed.
func (b *ClaimsBatch) Partial() bool { return len(b.Failures) > 0 }
