package logic

import (
	"regexp"
	"sort"
	"strings"
)

// Result reports whether a tree matched and which expanded terms matched,
// for diagnostics.
type Result struct {
	Found   bool
	Matches []string
}

// Evaluate walks the tree against the candidate's text. expandedTerms is the
// synonym-expanded closure of the rule's base terms.
//
// A term leaf matches when an expanded variant is a case-insensitive
// substring of the leaf value (in either direction) and that variant is also
// present in the text on a word boundary. Both checks are kept on purpose:
// the containment test ties the variant back to the leaf, while the boundary
// regexp stops "java" from matching inside "javascript".
//
// An empty Or node evaluates to not-found. Call sites treat an empty rule
// string as "no constraint" and skip evaluation entirely rather than rely on
// the empty-tree result.
func Evaluate(n *Node, expandedTerms []string, text string) Result {
	matches := make(map[string]struct{})
	found := evaluate(n, expandedTerms, text, matches)

	out := make([]string, 0, len(matches))
	for m := range matches {
		out = append(out, m)
	}
	sort.Strings(out)

	return Result{Found: found, Matches: out}
}

func evaluate(n *Node, expandedTerms []string, text string, matches map[string]struct{}) bool {
	if n == nil {
		return false
	}

	switch n.Type {
	case TermNode:
		return matchTerm(n.Value, expandedTerms, text, matches)
	case AndNode:
		// children are always all evaluated so the match list stays complete
		all := len(n.Children) > 0
		for _, child := range n.Children {
			if !evaluate(child, expandedTerms, text, matches) {
				all = false
			}
		}
		return all
	case OrNode:
		any := false
		for _, child := range n.Children {
			if evaluate(child, expandedTerms, text, matches) {
				any = true
			}
		}
		return any
	}

	return false
}

func matchTerm(value string, expandedTerms []string, text string, matches map[string]struct{}) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false
	}

	found := false
	for _, term := range expandedTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}

		if !strings.Contains(term, value) && !strings.Contains(value, term) {
			continue
		}

		if wordBoundaryMatch(term, text) {
			matches[term] = struct{}{}
			found = true
		}
	}

	return found
}

func wordBoundaryMatch(term, text string) bool {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	if err != nil {
		return strings.Contains(strings.ToLower(text), term)
	}
	return re.MatchString(text)
}
