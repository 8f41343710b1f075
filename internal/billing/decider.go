package billing

import (
	"math/rand/v2"
	"sync"

	"github.com/shopspring/decimal"
)

// Decider settles lines whose category carries RuleRequired. It stands in for
// an external adjudication authority: true approves the line in full, false
// approves it partially.
type Decider interface {
	ApproveInFull(category string, amount decimal.Decimal) bool
}

// DeciderFunc adapts a plain function to Decider.
type DeciderFunc func(category string, amount decimal.Decimal) bool

func (f DeciderFunc) ApproveInFull(category string, amount decimal.Decimal) bool {
	return f(category, amount)
}

var (
	// AlwaysApprove approves every RuleRequired line in full.
	AlwaysApprove Decider = DeciderFunc(func(string, decimal.Decimal) bool { return true })
	// NeverApprove approves every RuleRequired line partially.
	NeverApprove Decider = DeciderFunc(func(string, decimal.Decimal) bool { return false })
)

// RandomDecider approves in full with a fixed probability, drawing from its
// own seeded generator. It is safe for concurrent use.
type RandomDecider struct {
	mu          sync.Mutex
	rng         *rand.Rand
	probability float64
}

// NewRandomDecider returns a decider seeded with seed. The same seed yields
// the same sequence of outcomes.
func NewRandomDecider(seed uint64, probability float64) *RandomDecider {
	return &RandomDecider{
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		probability: probability,
	}
}

func (d *RandomDecider) ApproveInFull(string, decimal.Decimal) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64() < d.probability
}
