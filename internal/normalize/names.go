package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// HeaderKey lowercases, collapses whitespace, and trims a column header so
// that "Advance  Paid " and "advance paid" match.
func HeaderKey(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return multiSpace.ReplaceAllString(s, " ")
}
