// Package billing computes patient bills and simulates insurance
// pre-authorization. It holds no state between calls and performs no I/O;
// diagnostics are returned as data.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyeh/billclaims/internal/model"
)

var (
	// ErrMissingIdentifier is returned when a patient or line has no UHID.
	ErrMissingIdentifier = errors.New("missing identifier")
	// ErrForeignLine is returned when a line belongs to another patient.
	ErrForeignLine = errors.New("line belongs to another patient")
	// ErrNegativeAmount is returned when a claim line amount is below zero.
	ErrNegativeAmount = errors.New("negative claim amount")
)

// Engine binds a Policy to a Decider. Engines are safe for concurrent use
// provided the Decider is.
type Engine struct {
	policy  *Policy
	decider Decider
}

// NewEngine returns an engine. A nil policy selects DefaultPolicy; a nil
// decider selects a RandomDecider seeded from the clock using the policy's
// approval probability.
func NewEngine(policy *Policy, decider Decider) *Engine {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if decider == nil {
		decider = NewRandomDecider(uint64(time.Now().UnixNano()), policy.ApprovalProbability())
	}
	return &Engine{policy: policy, decider: decider}
}

// Policy returns the engine's policy.
func (e *Engine) Policy() *Policy { return e.policy }

// ComputeTotals applies the engine's tax rate; see the package-level
// ComputeTotals.
func (e *Engine) ComputeTotals(cleaned []model.ChargeLine, summary *model.BillingSummary) model.BillingTotals {
	return ComputeTotals(e.policy.taxRate, cleaned, summary)
}

// AdjudicateLine decides the pre-authorization outcome of one line.
// Categories absent from the policy use the policy's default rule.
func (e *Engine) AdjudicateLine(category string, amount decimal.Decimal) (model.PreAuthStatus, decimal.Decimal) {
	rule, _ := e.policy.RuleFor(category)
	return adjudicate(rule, e.policy.partialPercent, func() bool {
		return e.decider.ApproveInFull(category, amount)
	}, amount)
}

// Bill deduplicates the patient's charges and computes the totals.
func (e *Engine) Bill(identifier string, charges []model.ChargeLine, summary *model.BillingSummary) (model.BillingTotals, error) {
	if err := checkLines(identifier, charges); err != nil {
		return model.BillingTotals{}, err
	}
	cleaned, diagnostics := Deduplicate(charges)
	totals := e.ComputeTotals(cleaned, summary)
	totals.Errors = diagnostics
	return totals, nil
}

// Adjudication is the outcome of adjudicating one patient's claim.
type Adjudication struct {
	Lines   []model.ClaimLineOutcome
	Summary model.ClaimSummary
	Errors  []string
}

// Adjudicate deduplicates the claim lines, adjudicates each remaining line
// and aggregates the claim. A nil claim record means the patient paid
// nothing.
func (e *Engine) Adjudicate(identifier string, lines []model.ChargeLine, claim *model.ClaimRecord) (Adjudication, error) {
	if err := checkLines(identifier, lines); err != nil {
		return Adjudication{}, err
	}
	cleaned, diagnostics := Deduplicate(lines)

	outcomes := make([]model.ClaimLineOutcome, 0, len(cleaned))
	for i, l := range cleaned {
		if l.Amount.IsNegative() {
			return Adjudication{}, fmt.Errorf("claim line %d (%s): %w", i+1, l.Category, ErrNegativeAmount)
		}
		status, authorized := e.AdjudicateLine(l.Category, l.Amount)
		outcomes = append(outcomes, model.ClaimLineOutcome{
			Category:         l.Category,
			Description:      l.Description,
			Amount:           l.Amount,
			Status:           status,
			AuthorizedAmount: authorized,
		})
	}

	paid := decimal.Zero
	if claim != nil {
		paid = claim.AmountPaidByPatient
	}
	return Adjudication{
		Lines:   outcomes,
		Summary: SummarizeClaim(outcomes, paid),
		Errors:  diagnostics,
	}, nil
}

func checkLines(identifier string, lines []model.ChargeLine) error {
	if identifier == "" {
		return ErrMissingIdentifier
	}
	for i, l := range lines {
		switch l.Identifier {
		case identifier:
		case "":
			return fmt.Errorf("line %d: %w", i+1, ErrMissingIdentifier)
		default:
			return fmt.Errorf("line %d (uhid %q): %w", i+1, l.Identifier, ErrForeignLine)
		}
	}
	return nil
}
