// Package logic parses free-text boolean expressions (AND/OR/parentheses,
// with commas treated as OR) into a tree and evaluates the tree against a
// candidate's searchable text.
package logic

import (
	"regexp"
	"strings"
)

// NodeType discriminates tree node variants.
type NodeType int

const (
	TermNode NodeType = iota
	AndNode
	OrNode
)

// Node is a single node of a parsed expression. Term nodes are leaves;
// And/Or nodes carry children.
type Node struct {
	Type     NodeType
	Value    string
	Children []*Node
}

var (
	andWordRe = regexp.MustCompile(`(?i)\bAND\b`)
	orWordRe  = regexp.MustCompile(`(?i)\bOR\b`)
	spacesRe  = regexp.MustCompile(`\s+`)
)

// Parse converts a free-text boolean expression into a tree. It never fails:
// malformed fragments (unbalanced parentheses and the like) degrade to a
// single literal term instead of aborting the whole expression.
//
// Operator spelling is normalized first: AND/& become AND, OR/| become OR and
// bare commas become OR. When no operator token remains, the input is split
// on whitespace and treated as an OR of single-word terms, which keeps old
// space-separated keyword lists working.
func Parse(input string) *Node {
	normalized := normalize(input)
	if normalized == "" {
		return &Node{Type: OrNode}
	}

	if !strings.Contains(normalized, " AND ") && !strings.Contains(normalized, " OR ") {
		words := strings.Fields(normalized)
		node := &Node{Type: OrNode, Children: make([]*Node, 0, len(words))}
		for _, w := range words {
			node.Children = append(node.Children, &Node{Type: TermNode, Value: w})
		}
		return node
	}

	return parseExpr(normalized)
}

func normalize(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	s = andWordRe.ReplaceAllString(s, " AND ")
	s = orWordRe.ReplaceAllString(s, " OR ")
	s = strings.ReplaceAll(s, "&", " AND ")
	s = strings.ReplaceAll(s, "|", " OR ")
	s = strings.ReplaceAll(s, ",", " OR ")

	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// parseExpr parses recursively with OR binding looser than AND: the top
// level is split by OR first, then by AND, and whatever remains is a single
// term after stripping one layer of enclosing parentheses.
func parseExpr(s string) *Node {
	s = strings.TrimSpace(s)
	if s == "" {
		return &Node{Type: OrNode}
	}

	if parts := splitTopLevel(s, " OR "); len(parts) > 1 {
		node := &Node{Type: OrNode, Children: make([]*Node, 0, len(parts))}
		for _, part := range parts {
			node.Children = append(node.Children, parseExpr(part))
		}
		return node
	}

	if parts := splitTopLevel(s, " AND "); len(parts) > 1 {
		node := &Node{Type: AndNode, Children: make([]*Node, 0, len(parts))}
		for _, part := range parts {
			node.Children = append(node.Children, parseExpr(part))
		}
		return node
	}

	if inner, ok := stripOuterParens(s); ok {
		return parseExpr(inner)
	}

	return &Node{Type: TermNode, Value: strings.TrimSpace(s)}
}

// splitTopLevel splits s on the operator token, ignoring occurrences nested
// inside parentheses. Returns the original string as a single part when the
// operator never occurs at depth zero.
func splitTopLevel(s, operator string) []string {
	var parts []string
	depth := 0
	last := 0

	for i := 0; i <= len(s)-len(operator); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}

		if depth == 0 && s[i:i+len(operator)] == operator {
			parts = append(parts, s[last:i])
			last = i + len(operator)
			i += len(operator) - 1
		}
	}

	parts = append(parts, s[last:])
	return parts
}

// stripOuterParens removes one layer of parentheses wrapping the whole
// string. Unbalanced input is left untouched so it ends up as a literal.
func stripOuterParens(s string) (string, bool) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s, false
	}

	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return s, false
			}
			if depth == 0 && i != len(s)-1 {
				// the opening paren closes before the end, e.g. "(a) OR (b)"
				return s, false
			}
		}
	}
	if depth != 0 {
		return s, false
	}

	return strings.TrimSpace(s[1 : len(s)-1]), true
}

// Terms returns the leaf term values of the tree, in parse order.
func Terms(n *Node) []string {
	if n == nil {
		return nil
	}
	if n.Type == TermNode {
		return []string{n.Value}
	}

	var out []string
	for _, child := range n.Children {
		out = append(out, Terms(child)...)
	}
	return out
}
