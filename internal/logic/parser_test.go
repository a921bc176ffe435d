package logic

import (
	"reflect"
	"testing"
)

func TestParseOrBindsLooserThanAnd(t *testing.T) {
	t.Parallel()

	// "a AND b OR c" must evaluate as "(a AND b) OR c"
	node := Parse("a AND b OR c")

	if node.Type != OrNode {
		t.Fatalf("expected top-level OR node, got %v", node.Type)
	}
	if len(node.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(node.Children))
	}
	if node.Children[0].Type != AndNode {
		t.Fatalf("expected first child to be AND, got %v", node.Children[0].Type)
	}

	terms := []string{"a", "b", "c"}

	if got := Evaluate(node, terms, "only c here"); !got.Found {
		t.Fatalf("expected text with only c to match")
	}
	if got := Evaluate(node, terms, "only a here"); got.Found {
		t.Fatalf("expected text with only a not to match")
	}
	if got := Evaluate(node, terms, "a and b here"); !got.Found {
		t.Fatalf("expected text with a and b to match")
	}
}

func TestParseCommaEquivalentToOr(t *testing.T) {
	t.Parallel()

	comma := Parse("x, y")
	or := Parse("x OR y")

	if !reflect.DeepEqual(comma, or) {
		t.Fatalf("expected identical trees, got %+v vs %+v", comma, or)
	}

	terms := []string{"x", "y"}
	for _, text := range []string{"has x", "has y", "has neither"} {
		if a, b := Evaluate(comma, terms, text), Evaluate(or, terms, text); a.Found != b.Found {
			t.Fatalf("evaluation diverged on %q: comma=%v or=%v", text, a.Found, b.Found)
		}
	}
}

func TestParseParenthesisGrouping(t *testing.T) {
	t.Parallel()

	node := Parse("(a AND b) OR c")
	terms := []string{"a", "b", "c"}

	if got := Evaluate(node, terms, "just a"); got.Found {
		t.Fatalf("a alone must not satisfy (a AND b) OR c")
	}
	if got := Evaluate(node, terms, "a plus b"); !got.Found {
		t.Fatalf("a and b together must satisfy (a AND b) OR c")
	}
	if got := Evaluate(node, terms, "just c"); !got.Found {
		t.Fatalf("c alone must satisfy (a AND b) OR c")
	}
}

func TestParseOperatorSpelling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  NodeType
	}{
		{"lowercase and", "a and b", AndNode},
		{"ampersand", "a & b", AndNode},
		{"lowercase or", "a or b", OrNode},
		{"pipe", "a | b", OrNode},
		{"mixed case", "a AnD b", AndNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			node := Parse(tt.input)
			if node.Type != tt.want {
				t.Fatalf("expected node type %v, got %v", tt.want, node.Type)
			}
			if len(node.Children) != 2 {
				t.Fatalf("expected 2 children, got %d", len(node.Children))
			}
		})
	}
}

func TestParseWhitespaceListBecomesOr(t *testing.T) {
	t.Parallel()

	node := Parse("python golang rust")

	if node.Type != OrNode {
		t.Fatalf("expected OR node, got %v", node.Type)
	}
	if len(node.Children) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(node.Children))
	}
	for _, child := range node.Children {
		if child.Type != TermNode {
			t.Fatalf("expected term leaf, got %v", child.Type)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "\t\n"} {
		node := Parse(input)
		if node.Type != OrNode || len(node.Children) != 0 {
			t.Fatalf("expected empty OR node for %q, got %+v", input, node)
		}
		if got := Evaluate(node, nil, "anything"); got.Found {
			t.Fatalf("empty tree must not match")
		}
	}
}

func TestParseUnbalancedParensDegradesToTerm(t *testing.T) {
	t.Parallel()

	node := Parse("(a")
	if node.Type != OrNode || len(node.Children) != 1 {
		t.Fatalf("expected single-term OR wrapper, got %+v", node)
	}
	if node.Children[0].Type != TermNode || node.Children[0].Value != "(a" {
		t.Fatalf("expected literal term \"(a\", got %+v", node.Children[0])
	}
}

func TestTermsCollectsLeaves(t *testing.T) {
	t.Parallel()

	node := Parse("node AND react OR vue")
	got := Terms(node)
	want := []string{"node", "react", "vue"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEvaluateWordBoundary(t *testing.T) {
	t.Parallel()

	node := Parse("java")

	if got := Evaluate(node, []string{"java"}, "we use JavaScript only"); got.Found {
		t.Fatalf("java must not match inside javascript")
	}
	if got := Evaluate(node, []string{"java"}, "strong Java background"); !got.Found {
		t.Fatalf("java must match on a word boundary")
	}
}

func TestEvaluateScenarioMustHaveAndExclude(t *testing.T) {
	t.Parallel()

	mustHave := Parse("node AND react")
	summary := "5 years of Node.js and React experience"
	// "node" hits on a boundary inside "Node.js"
	if got := Evaluate(mustHave, []string{"node", "react"}, summary); !got.Found {
		t.Fatalf("expected must-have check to pass, matches=%v", got.Matches)
	}

	exclude := Parse("manager")
	title := "Engineering Manager"
	got := Evaluate(exclude, []string{"manager"}, title)
	if !got.Found {
		t.Fatalf("expected exclude check to find manager")
	}
	if len(got.Matches) != 1 || got.Matches[0] != "manager" {
		t.Fatalf("expected single manager match, got %v", got.Matches)
	}
}

func TestEvaluateDeduplicatesMatches(t *testing.T) {
	t.Parallel()

	node := Parse("go OR go")
	got := Evaluate(node, []string{"go"}, "go go go")
	if !got.Found {
		t.Fatalf("expected match")
	}
	if len(got.Matches) != 1 {
		t.Fatalf("expected deduplicated matches, got %v", got.Matches)
	}
}

func TestEvaluateExpandedTermBothDirections(t *testing.T) {
	t.Parallel()

	// expanded variant longer than the leaf still matches via containment
	node := Parse("engineer")
	got := Evaluate(node, []string{"engineer", "software engineer"}, "Senior Software Engineer at Acme")
	if !got.Found {
		t.Fatalf("expected expanded variant to match")
	}
}
