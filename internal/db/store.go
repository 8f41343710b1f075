package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/billclaims/internal/model"
	"github.com/gyeh/billclaims/internal/process"
	embedsql "github.com/gyeh/billclaims/internal/sql"
)

var (
	patientTotalsTable   = pgx.Identifier{"billing", "patient_totals"}
	claimSummariesTable  = pgx.Identifier{"billing", "claim_summaries"}
	claimLinesTable      = pgx.Identifier{"billing", "claim_lines"}
	patientFailuresTable = pgx.Identifier{"billing", "patient_failures"}
)

// Store persists finished runs. The engine never touches it; callers hand
// over completed batches.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewStore wraps pool.
func NewStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, log: log}
}

// RunRecord is a row of billing.runs.
type RunRecord struct {
	RunID             uuid.UUID
	Kind              string
	FilePath          string
	FileSHA256        string
	Workbooks         int
	Status            string
	PatientsProcessed int
	PatientsFailed    int
	DuplicatesDropped int
}

// SaveBilling writes a billing batch in one transaction.
func (s *Store) SaveBilling(ctx context.Context, batch *process.BillingBatch) error {
	return s.save(ctx, batch.Summary, func(tx pgx.Tx) error {
		n, err := copyRows(ctx, tx, patientTotalsTable, model.BillingTotalsColumns(), pointers(batch.Rows()))
		if err != nil {
			return fmt.Errorf("copy patient totals: %w", err)
		}
		s.log.Debug().Int64("rows", n).Msg("patient totals copied")
		if _, err := copyRows(ctx, tx, patientFailuresTable, model.FailureColumns(), pointers(batch.FailureRows())); err != nil {
			return fmt.Errorf("copy failures: %w", err)
		}
		return nil
	})
}

// SaveClaims writes a claims batch in one transaction.
func (s *Store) SaveClaims(ctx context.Context, batch *process.ClaimsBatch) error {
	return s.save(ctx, batch.Summary, func(tx pgx.Tx) error {
		if _, err := copyRows(ctx, tx, claimSummariesTable, model.ClaimSummaryColumns(), pointers(batch.SummaryRows())); err != nil {
			return fmt.Errorf("copy claim summaries: %w", err)
		}
		n, err := copyRows(ctx, tx, claimLinesTable, model.ClaimLineColumns(), pointers(batch.LineRows()))
		if err != nil {
			return fmt.Errorf("copy claim lines: %w", err)
		}
		s.log.Debug().Int64("rows", n).Msg("claim lines copied")
		if _, err := copyRows(ctx, tx, patientFailuresTable, model.FailureColumns(), pointers(batch.FailureRows())); err != nil {
			return fmt.Errorf("copy failures: %w", err)
		}
		return nil
	})
}

func (s *Store) save(ctx context.Context, sum model.RunSummary, load func(pgx.Tx) error) error {
	start := time.Now()
	runID, err := uuid.Parse(sum.RunID)
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, embedsql.InsertRun,
		runID, sum.Kind, sum.FilePath, sum.FileSHA256, sum.Workbooks, sum.TaxRate.String(),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if err := load(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, embedsql.FinishRun,
		runID, sum.PatientsProcessed, sum.PatientsFailed, sum.DuplicatesDropped,
	); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.log.Info().
		Str("run_id", sum.RunID).
		Str("kind", sum.Kind).
		Str("duration", time.Since(start).String()).
		Msg("run persisted")
	return nil
}

// FindRunBySHA returns the newest completed run of kind for a file hash.
// ok is false when the file has not been persisted before.
func (s *Store) FindRunBySHA(ctx context.Context, kind, sha string) (id uuid.UUID, ok bool, err error) {
	err = s.pool.QueryRow(ctx, embedsql.FindRunBySHA, kind, sha).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("find run: %w", err)
	}
	return id, true, nil
}

// Run loads one row of billing.runs.
func (s *Store) Run(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	var r RunRecord
	err := s.pool.QueryRow(ctx, embedsql.GetRun, id).Scan(
		&r.RunID, &r.Kind, &r.FilePath, &r.FileSHA256, &r.Workbooks, &r.Status,
		&r.PatientsProcessed, &r.PatientsFailed, &r.DuplicatesDropped,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &r, nil
}
