package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/candidate"
	"github.com/talentsift/talentsift/internal/rules"
)

type stubGenerator struct {
	response string
	usage    *ai.Usage
	err      error

	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, *ai.Usage, error) {
	s.lastPrompt = prompt
	return s.response, s.usage, s.err
}

func (s *stubGenerator) Model() string { return "stub-model" }

func testRequest() *ai.Request {
	return &ai.Request{
		Candidates: []*candidate.Candidate{
			{ID: "c1", FullName: "Jane Doe", CurrentTitle: "Backend Engineer"},
		},
		Rules: &rules.FilterRules{
			JobID:              "job-1",
			MustHaveTerms:      "golang",
			RequiredTitleTerms: "principal OR staff",
		},
	}
}

func TestClassifyBatchParsesVerdicts(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{
		response: `[
			{
				"candidate_id": "c1",
				"experience_pass": true,
				"role_duration_pass": true,
				"must_have_pass": true,
				"exclude_pass": true,
				"location_pass": true,
				"top_university_pass": false,
				"overall_pass": true,
				"confidence": 87.5,
				"reasons": ["solid backend background"]
			}
		]`,
		usage: &ai.Usage{InputTokens: 120, OutputTokens: 40},
	}

	c := NewClassifier(gen, zap.NewNop(), 0)
	verdicts, usage, err := c.ClassifyBatch(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(verdicts) != 1 {
		t.Fatalf("expected 1 verdict, got %d", len(verdicts))
	}

	v := verdicts[0]
	if v.CandidateID != "c1" || !v.OverallPass || v.TopUniversityPass {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if v.Confidence != 87.5 {
		t.Fatalf("expected confidence 87.5, got %v", v.Confidence)
	}
	if usage == nil || usage.InputTokens != 120 {
		t.Fatalf("unexpected usage: %+v", usage)
	}
}

func TestClassifyBatchStripsMarkdownFence(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{
		response: "```json\n[{\"candidate_id\": \"c1\", \"overall_pass\": true}]\n```",
	}

	c := NewClassifier(gen, zap.NewNop(), 0)
	verdicts, _, err := c.ClassifyBatch(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(verdicts) != 1 || verdicts[0].CandidateID != "c1" {
		t.Fatalf("unexpected verdicts: %+v", verdicts)
	}
}

func TestClassifyBatchAcceptsWrappedResults(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{
		response: `{"results": [{"candidate_id": "c1", "must_have_pass": "yes", "confidence": "75"}]}`,
	}

	c := NewClassifier(gen, zap.NewNop(), 0)
	verdicts, _, err := c.ClassifyBatch(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(verdicts) != 1 {
		t.Fatalf("expected 1 verdict, got %d", len(verdicts))
	}
	if !verdicts[0].MustHavePass {
		t.Fatalf("expected string coercion to yield a pass")
	}
	if verdicts[0].Confidence != 75 {
		t.Fatalf("expected confidence 75, got %v", verdicts[0].Confidence)
	}
}

func TestClassifyBatchFailureSentinel(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{
		response: "AI_ANALYSIS_FAILED",
		usage:    &ai.Usage{InputTokens: 10},
	}

	c := NewClassifier(gen, zap.NewNop(), 0)
	verdicts, usage, err := c.ClassifyBatch(context.Background(), testRequest())
	if !errors.Is(err, ai.ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	if verdicts != nil {
		t.Fatalf("expected no verdicts, got %+v", verdicts)
	}
	if usage == nil || usage.InputTokens != 10 {
		t.Fatalf("expected usage to be returned alongside the failure, got %+v", usage)
	}
}

func TestClassifyBatchGeneratorError(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{err: errors.New("quota exceeded")}

	c := NewClassifier(gen, zap.NewNop(), 0)
	if _, _, err := c.ClassifyBatch(context.Background(), testRequest()); err == nil {
		t.Fatalf("expected the generator error to propagate")
	}
}

func TestClassifyBatchUnparseableResponse(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: "I could not evaluate these candidates."}

	c := NewClassifier(gen, zap.NewNop(), 0)
	if _, _, err := c.ClassifyBatch(context.Background(), testRequest()); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestClassifyBatchEmptyBatch(t *testing.T) {
	t.Parallel()

	c := NewClassifier(&stubGenerator{}, zap.NewNop(), 0)
	if _, _, err := c.ClassifyBatch(context.Background(), &ai.Request{Rules: &rules.FilterRules{}}); err == nil {
		t.Fatalf("expected an error for an empty batch")
	}
}

func TestBuildPromptInterpolatesPayloads(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: `[]`}
	c := NewClassifier(gen, zap.NewNop(), 0)

	if _, _, err := c.ClassifyBatch(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Jane Doe", "golang", "principal OR staff", "AI_ANALYSIS_FAILED"} {
		if !strings.Contains(gen.lastPrompt, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}

	// the title expression is not just delivered as data; the criteria
	// section tells the model what to do with it
	criteria := gen.lastPrompt[:strings.Index(gen.lastPrompt, "# Input")]
	if !strings.Contains(criteria, "required_title_terms") {
		t.Fatalf("expected the criteria section to reference required_title_terms")
	}
	for _, placeholder := range []string{"{{CANDIDATES_JSON}}", "{{RULES_JSON}}", "{{SYNONYMS_JSON}}"} {
		if strings.Contains(gen.lastPrompt, placeholder) {
			t.Fatalf("placeholder %s was not replaced", placeholder)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare", `[{"a": 1}]`, `[{"a": 1}]`},
		{"fenced", "```json\n[1, 2]\n```", "[1, 2]"},
		{"fenced no language", "```\n[1]\n```", "[1]"},
		{"padded", "  \n[1]\n  ", "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSON(tt.input); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCoerceBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input any
		want  bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"Yes", true},
		{"pass", true},
		{"no", false},
		{float64(1), true},
		{float64(0), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := coerceBool(tt.input); got != tt.want {
			t.Fatalf("coerceBool(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
