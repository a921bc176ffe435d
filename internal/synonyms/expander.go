// Package synonyms expands rule terms with their declared equivalents.
package synonyms

import "strings"

// Entry declares an equivalence between two terms. The relation is symmetric:
// a lookup matches on either column.
type Entry struct {
	Canonical string
	Variant   string
	Category  string
}

// Expand returns the base terms plus every synonym reachable in one hop, as a
// deduplicated flat list. The expansion is deliberately not transitive: with
// separate rows A<->B and B<->C, expanding A yields {A, B} only. Chains have
// to be declared explicitly in the table.
func Expand(terms []string, entries []Entry) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))

	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}

	for _, base := range terms {
		base = strings.ToLower(strings.TrimSpace(base))
		if base == "" {
			continue
		}
		add(base)

		for _, entry := range entries {
			canonical := strings.ToLower(strings.TrimSpace(entry.Canonical))
			variant := strings.ToLower(strings.TrimSpace(entry.Variant))

			if canonical == base {
				add(variant)
			}
			if variant == base {
				add(canonical)
			}
		}
	}

	return out
}
