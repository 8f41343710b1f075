package billing

import (
	"github.com/shopspring/decimal"

	"github.com/gyeh/billclaims/internal/model"
)

// AggregateStatus folds line statuses into one claim status:
//
//	no lines                -> Pending
//	every line Approved     -> Approved
//	any line Rejected       -> Partial
//	any line Partial        -> Partial
//	otherwise               -> Pending
//
// A rejected line never makes the whole claim Rejected.
// TODO: confirm with the claims team whether an all-Rejected claim should
// report Rejected instead of Partial.
func AggregateStatus(statuses []model.PreAuthStatus) model.PreAuthStatus {
	if len(statuses) == 0 {
		return model.StatusPending
	}
	allApproved := true
	var anyRejected, anyPartial bool
	for _, s := range statuses {
		switch s {
		case model.StatusApproved:
		case model.StatusRejected:
			anyRejected = true
			allApproved = false
		case model.StatusPartial:
			anyPartial = true
			allApproved = false
		default:
			allApproved = false
		}
	}
	switch {
	case allApproved:
		return model.StatusApproved
	case anyRejected, anyPartial:
		return model.StatusPartial
	default:
		return model.StatusPending
	}
}

// SummarizeClaim totals the authorized amounts and nets the patient's
// payment against them.
func SummarizeClaim(lines []model.ClaimLineOutcome, paidByPatient decimal.Decimal) model.ClaimSummary {
	authorized := decimal.Zero
	statuses := make([]model.PreAuthStatus, len(lines))
	for i, l := range lines {
		authorized = authorized.Add(l.AuthorizedAmount)
		statuses[i] = l.Status
	}
	return model.ClaimSummary{
		AuthorizedTotal:       authorized,
		AmountPaidByPatient:   paidByPatient,
		BalanceDueFromInsurer: authorized.Sub(paidByPatient),
		OverallStatus:         AggregateStatus(statuses),
	}
}
