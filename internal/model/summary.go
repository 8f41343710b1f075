package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunSummary captures metrics from a single billing or claims run.
type RunSummary struct {
	RunID             string
	Kind              string // "billing" or "claims"
	FilePath          string
	FileSHA256        string
	Workbooks         int
	TaxRate           decimal.Decimal
	PatientsSeen      int
	PatientsProcessed int
	PatientsFailed    int
	ChargeLinesRead   int
	DuplicatesDropped int
	DurationRead      time.Duration
	DurationProcess   time.Duration
	DurationPersist   time.Duration
	DurationTotal     time.Duration
}
