package billing

import (
	"github.com/shopspring/decimal"

	"github.com/gyeh/billclaims/internal/model"
)

// adjudicate applies rule to one line amount. amount must not be negative.
func adjudicate(rule Rule, partial decimal.Decimal, decide func() bool, amount decimal.Decimal) (model.PreAuthStatus, decimal.Decimal) {
	switch rule {
	case RuleApproved:
		return model.StatusApproved, amount
	case RulePartial:
		return model.StatusPartial, partialOf(amount, partial)
	case RuleRequired:
		if decide() {
			return model.StatusApproved, amount
		}
		return model.StatusPartial, partialOf(amount, partial)
	default:
		return model.StatusRejected, decimal.Zero
	}
}

// partialOf never exceeds amount, even after rounding.
func partialOf(amount, percent decimal.Decimal) decimal.Decimal {
	p := amount.Mul(percent).Round(2)
	if p.GreaterThan(amount) {
		return amount
	}
	return p
}
