package match

import (
	"regexp"
	"strings"
)

var universityStopRe = regexp.MustCompile(`\b(university|institute|college|of|technology|the)\b`)

// NormalizeUniversity lowercases the name, replaces punctuation with spaces,
// drops generic university words and collapses whitespace.
func NormalizeUniversity(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = punctReplacer.Replace(s)
	s = universityStopRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// IsUniversityMatch reports bidirectional substring containment of the
// normalized names. No alias table is involved. Empty input never matches.
func IsUniversityMatch(a, b string) bool {
	na := NormalizeUniversity(a)
	nb := NormalizeUniversity(b)
	if na == "" || nb == "" {
		return false
	}

	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
