package normalize

import (
	"regexp"
	"strings"
)

var innerSpace = regexp.MustCompile(`\s+`)

// DiagnosisCode trims and uppercases an ICD-10 code, removing inner
// whitespace ("i21 .9" -> "I21.9"). The dot is kept.
func DiagnosisCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return innerSpace.ReplaceAllString(strings.ToUpper(s), "")
}
