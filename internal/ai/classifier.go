// Package ai defines the contract between the filtering engine and the
// external semantic classifier.
package ai

import (
	"context"
	"errors"

	"github.com/talentsift/talentsift/internal/candidate"
	"github.com/talentsift/talentsift/internal/rules"
	"github.com/talentsift/talentsift/internal/synonyms"
)

// FailedSentinel is the literal the classifier emits when it could not
// analyze a batch. Its presence fails the whole batch over to the
// deterministic fallback.
const FailedSentinel = "AI_ANALYSIS_FAILED"

// ErrAnalysisFailed is returned when the classifier reports the failure
// sentinel instead of verdicts.
var ErrAnalysisFailed = errors.New("ai analysis failed")

// Verdict is the classifier's per-candidate judgment: one pass/fail per
// criterion plus 0-100 confidence. Verdicts are ephemeral; the reconciler
// consumes them immediately and only the corrected result is persisted.
type Verdict struct {
	CandidateID       string   `json:"candidate_id"`
	ExperiencePass    bool     `json:"experience_pass"`
	RoleDurationPass  bool     `json:"role_duration_pass"`
	MustHavePass      bool     `json:"must_have_pass"`
	ExcludePass       bool     `json:"exclude_pass"`
	LocationPass      bool     `json:"location_pass"`
	TopUniversityPass bool     `json:"top_university_pass"`
	OverallPass       bool     `json:"overall_pass"`
	Confidence        float64  `json:"confidence"`
	Reasons           []string `json:"reasons,omitempty"`
}

// Usage reports token consumption of one classifier call, for the cost
// ledger. Recording it is fire-and-forget.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Request is one batch sent to the classifier.
type Request struct {
	Candidates []*candidate.Candidate
	Rules      *rules.FilterRules
	Synonyms   []synonyms.Entry
}

// Classifier evaluates a batch of candidates against the rule set. Calls
// must be idempotent: re-sending the same batch has no side effects beyond
// cost tracking.
type Classifier interface {
	ClassifyBatch(ctx context.Context, req *Request) ([]*Verdict, *Usage, error)
}
