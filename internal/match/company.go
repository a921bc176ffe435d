// Package match normalizes company and university names and performs
// alias-aware fuzzy matching between them.
package match

import (
	"regexp"
	"strings"
)

var (
	punctReplacer = strings.NewReplacer(
		".", " ", ",", " ", "-", " ", "(", " ", ")", " ", "[", " ", "]", " ",
	)
	spacesRe = regexp.MustCompile(`\s+`)

	companyStopRe = regexp.MustCompile(
		`\b(ltd|inc|llc|technologies|tech|labs|israel|corp|co|company|corporation|limited|group|systems|software|solutions)\b`)
)

// companyAliases maps well-known name variants. The table is applied in both
// directions: either side matching the normalized name pulls in the other.
var companyAliases = map[string]string{
	"aws":       "amazon",
	"meta":      "facebook",
	"google":    "google cloud",
	"microsoft": "microsoft azure",
	"apple":     "apple inc",
	"netflix":   "nflx",
}

// NormalizeCompany lowercases the name, replaces punctuation with spaces,
// drops legal/generic suffixes and collapses whitespace.
func NormalizeCompany(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = punctReplacer.Replace(s)
	s = companyStopRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// CompanyAliases returns the normalized name plus any alias-table entries
// whose key or value appears as a substring of it.
func CompanyAliases(name string) []string {
	norm := NormalizeCompany(name)
	if norm == "" {
		return nil
	}

	out := []string{norm}
	seen := map[string]struct{}{norm: {}}
	add := func(alias string) {
		if _, ok := seen[alias]; ok {
			return
		}
		seen[alias] = struct{}{}
		out = append(out, alias)
	}

	for key, value := range companyAliases {
		if strings.Contains(norm, key) {
			add(value)
		}
		if strings.Contains(norm, value) {
			add(key)
		}
	}

	return out
}

// IsCompanyMatch reports whether any alias of a is a substring of any alias
// of b, or vice versa. The containment is deliberately permissive so partial
// and abbreviated names still match, at the cost of false positives on very
// short names. Empty input on either side never matches.
func IsCompanyMatch(a, b string) bool {
	aliasesA := CompanyAliases(a)
	aliasesB := CompanyAliases(b)
	if len(aliasesA) == 0 || len(aliasesB) == 0 {
		return false
	}

	for _, x := range aliasesA {
		for _, y := range aliasesB {
			if strings.Contains(x, y) || strings.Contains(y, x) {
				return true
			}
		}
	}

	return false
}
