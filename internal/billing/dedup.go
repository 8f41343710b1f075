package billing

import (
	"fmt"
	"strings"

	"github.com/gyeh/billclaims/internal/model"
)

type chargeKey struct {
	category    string
	description string
}

func keyOf(c model.ChargeLine) chargeKey {
	return chargeKey{
		category:    strings.TrimSpace(c.Category),
		description: strings.TrimSpace(c.Description),
	}
}

// Deduplicate keeps the first line for every (category, description) pair
// and drops the rest. One diagnostic per duplicated pair is returned, in the
// order the pair was first seen. The input slice is not modified.
func Deduplicate(lines []model.ChargeLine) ([]model.ChargeLine, []string) {
	cleaned := make([]model.ChargeLine, 0, len(lines))
	diagnostics := []string{}

	counts := make(map[chargeKey]int, len(lines))
	var order []chargeKey
	for _, line := range lines {
		k := keyOf(line)
		if counts[k] == 0 {
			order = append(order, k)
			cleaned = append(cleaned, line)
		}
		counts[k]++
	}

	for _, k := range order {
		if n := counts[k]; n > 1 {
			diagnostics = append(diagnostics, fmt.Sprintf(
				"Duplicate charge '%s' under head '%s'. Kept 1, ignored %d extra.",
				k.description, k.category, n-1))
		}
	}
	return cleaned, diagnostics
}
