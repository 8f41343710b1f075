package process

import (
	"strings"

	"github.com/gyeh/billclaims/internal/model"
)

// poisonedSet groups row errors by the identifier they belong to.
type poisonedSet struct {
	byID  map[string][]string
	order []string
}

func groupRowErrors(errs []*model.RowError) poisonedSet {
	p := poisonedSet{byID: make(map[string][]string)}
	for _, e := range errs {
		if _, seen := p.byID[e.Identifier]; !seen {
			p.order = append(p.order, e.Identifier)
		}
		p.byID[e.Identifier] = append(p.byID[e.Identifier], e.Error())
	}
	return p
}

func (p poisonedSet) reason(id string) (string, bool) {
	msgs, ok := p.byID[id]
	if !ok {
		return "", false
	}
	return strings.Join(msgs, "; "), true
}

// appendMissing appends the entries of extra not already in ids.
func appendMissing(ids, extra []string) []string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	for _, id := range extra {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
