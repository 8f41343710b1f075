package billing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Rule is a pre-authorization rule assigned to a charge category.
type Rule string

const (
	RuleApproved Rule = "Approved" // pay in full
	RulePartial  Rule = "Partial"  // pay PartialPercent of the line
	RuleRequired Rule = "Required" // outcome decided by the Decider
	RuleRejected Rule = "Rejected" // pay nothing
)

// ParseRule maps a configured rule name onto a Rule. Matching is
// case-insensitive.
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved":
		return RuleApproved, nil
	case "partial":
		return RulePartial, nil
	case "required":
		return RuleRequired, nil
	case "rejected":
		return RuleRejected, nil
	}
	return "", fmt.Errorf("unknown pre-auth rule %q", s)
}

// DefaultTaxRate is the GST rate applied to bill subtotals.
var DefaultTaxRate = decimal.RequireFromString("0.05")

// DefaultPartialPercent is the share of a line paid under RulePartial.
var DefaultPartialPercent = decimal.RequireFromString("0.8")

// DefaultApprovalProbability is the chance that a RuleRequired line is
// approved in full by the random decider.
const DefaultApprovalProbability = 0.8

// DefaultRules is the built-in category table.
var DefaultRules = map[string]Rule{
	"ICU":                    RulePartial,
	"OT/Cath Lab":            RuleRequired,
	"Surgery/Procedure":      RuleRequired,
	"Anesthesia":             RuleRequired,
	"Room Rent":              RulePartial,
	"Pharmacy & Consumables": RuleApproved,
	"Investigations":         RuleApproved,
	"Miscellaneous":          RuleApproved,
	"Nursing":                RuleApproved,
	"Procedure/Treatment":    RuleRequired,
}

// PolicyOptions are the inputs to NewPolicy. Zero values select defaults,
// except for Rules: a nil map selects DefaultRules, an empty non-nil map
// means every category falls through to DefaultRule.
type PolicyOptions struct {
	TaxRate             *decimal.Decimal
	PartialPercent      *decimal.Decimal
	ApprovalProbability *float64
	DefaultRule         Rule
	Rules               map[string]Rule
}

// Policy is the immutable billing and pre-authorization configuration. It is
// safe for concurrent use.
type Policy struct {
	taxRate             decimal.Decimal
	partialPercent      decimal.Decimal
	approvalProbability float64
	defaultRule         Rule
	rules               map[string]Rule
}

// NewPolicy validates o and builds a Policy. The rules map is copied.
func NewPolicy(o PolicyOptions) (*Policy, error) {
	p := &Policy{
		taxRate:             DefaultTaxRate,
		partialPercent:      DefaultPartialPercent,
		approvalProbability: DefaultApprovalProbability,
		defaultRule:         RuleApproved,
	}
	if o.TaxRate != nil {
		if o.TaxRate.IsNegative() {
			return nil, fmt.Errorf("tax rate must not be negative, got %s", o.TaxRate)
		}
		p.taxRate = *o.TaxRate
	}
	if o.PartialPercent != nil {
		if o.PartialPercent.IsNegative() || o.PartialPercent.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("partial percent must be within [0, 1], got %s", o.PartialPercent)
		}
		p.partialPercent = *o.PartialPercent
	}
	if o.ApprovalProbability != nil {
		if *o.ApprovalProbability < 0 || *o.ApprovalProbability > 1 {
			return nil, fmt.Errorf("approval probability must be within [0, 1], got %v", *o.ApprovalProbability)
		}
		p.approvalProbability = *o.ApprovalProbability
	}
	if o.DefaultRule != "" {
		r, err := ParseRule(string(o.DefaultRule))
		if err != nil {
			return nil, fmt.Errorf("default rule: %w", err)
		}
		p.defaultRule = r
	}

	src := o.Rules
	if src == nil {
		src = DefaultRules
	}
	p.rules = make(map[string]Rule, len(src))
	for category, rule := range src {
		r, err := ParseRule(string(rule))
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", category, err)
		}
		p.rules[strings.TrimSpace(category)] = r
	}
	return p, nil
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(PolicyOptions{})
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Policy) TaxRate() decimal.Decimal        { return p.taxRate }
func (p *Policy) PartialPercent() decimal.Decimal { return p.partialPercent }
func (p *Policy) ApprovalProbability() float64    { return p.approvalProbability }
func (p *Policy) DefaultRule() Rule               { return p.defaultRule }

// RuleFor returns the rule for category. Categories missing from the table
// get the default rule and ok=false.
func (p *Policy) RuleFor(category string) (rule Rule, ok bool) {
	if r, found := p.rules[strings.TrimSpace(category)]; found {
		return r, true
	}
	return p.defaultRule, false
}

// Categories returns the configured categories in sorted order.
func (p *Policy) Categories() []string {
	out := make([]string, 0, len(p.rules))
	for c := range p.rules {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
