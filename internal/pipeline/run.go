// Package pipeline runs the full two-stage filtering pass for one (user,
// job) scope and persists the aggregated outcome set.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/candidate"
	"github.com/talentsift/talentsift/internal/filtering"
	"github.com/talentsift/talentsift/internal/rules"
	"github.com/talentsift/talentsift/internal/stage2"
	"github.com/talentsift/talentsift/internal/store"
	"github.com/talentsift/talentsift/internal/synonyms"
)

// Storage is the slice of the store the pipeline needs. *store.Store
// satisfies it; tests substitute an in-memory implementation.
type Storage interface {
	Candidates(ctx context.Context, sc store.Scope) (*candidate.Candidates, error)
	Rules(ctx context.Context, sc store.Scope) (*rules.FilterRules, error)
	Lists(ctx context.Context, sc store.Scope) (*filtering.Lists, error)
	Synonyms(ctx context.Context) ([]synonyms.Entry, error)
	ReplaceOutcomes(ctx context.Context, sc store.Scope, outcomes []*store.Outcome) error
}

// Deps aggregates the pipeline's collaborators.
type Deps struct {
	Storage    Storage
	Classifier ai.Classifier
	Logger     *zap.Logger
	Costs      stage2.CostRecorder
	Progress   stage2.ProgressFunc

	BatchTimeout time.Duration
	// DisabledGates lists stage-1 gates to skip for this run, by name.
	DisabledGates []string
	// DryRun executes both stages but writes nothing.
	DryRun bool
}

// Summary reports what one run did.
type Summary struct {
	Total        int
	Stage1Passed int
	Stage2Passed int
	Fallback     int
	Persisted    int
}

// Run executes stage 1 and stage 2 for the scope and replaces the persisted
// outcome set. The run either completes with a full outcome set or fails
// with an error; there is no partial or resumable state. Candidates whose
// stage-2 wave was discarded by cancellation are left out of the persisted
// set; the next run recomputes everything anyway.
func Run(ctx context.Context, deps Deps, sc store.Scope) (*Summary, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r, err := deps.Storage.Rules(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("load filter rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate filter rules: %w", err)
	}

	lists, err := deps.Storage.Lists(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("load lists: %w", err)
	}

	synonymTable, err := deps.Storage.Synonyms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load synonyms: %w", err)
	}

	cands, err := deps.Storage.Candidates(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	log.Info("starting filtering run",
		zap.String("job_id", sc.JobID),
		zap.Int("candidates", cands.Len()),
	)

	gates := filtering.Gates()
	for _, name := range deps.DisabledGates {
		filtering.DisableByName(gates, name, "disabled for this run")
	}

	stage1cfg := &filtering.Config{Rules: r, Lists: lists}
	if err := filtering.Validate(stage1cfg, gates); err != nil {
		return nil, fmt.Errorf("stage 1: %w", err)
	}
	for _, status := range filtering.Describe(gates) {
		log.Debug("gate configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	survivors, s1outcomes, err := filtering.Run(ctx,
		stage1cfg,
		filtering.Deps{Logger: log},
		gates, cands,
	)
	if err != nil {
		return nil, fmt.Errorf("stage 1: %w", err)
	}

	orchestrator := stage2.New(deps.Classifier, log)
	if deps.Costs != nil {
		orchestrator = orchestrator.WithCosts(deps.Costs)
	}
	if deps.Progress != nil {
		orchestrator = orchestrator.WithProgress(deps.Progress)
	}

	s2results, err := orchestrator.Run(ctx, &stage2.Config{
		Rules:           r,
		Synonyms:        synonymTable,
		TargetCompanies: lists.TargetCompanies,
		BatchTimeout:    deps.BatchTimeout,
	}, survivors.Items)
	if err != nil {
		return nil, fmt.Errorf("stage 2: %w", err)
	}

	outcomes, summary := aggregate(cands, s1outcomes, s2results)
	summary.Total = cands.Len()

	if deps.DryRun {
		log.Info("dry run; skipping outcome persistence",
			zap.Int("outcomes", len(outcomes)),
		)
		return summary, nil
	}

	if err := deps.Storage.ReplaceOutcomes(ctx, sc, outcomes); err != nil {
		return nil, fmt.Errorf("persist outcomes: %w", err)
	}
	summary.Persisted = len(outcomes)

	log.Info("filtering run completed",
		zap.Int("total", summary.Total),
		zap.Int("stage1_passed", summary.Stage1Passed),
		zap.Int("stage2_passed", summary.Stage2Passed),
		zap.Int("fallback", summary.Fallback),
	)

	return summary, nil
}

// aggregate merges both stages into the persisted record set. Reasons
// accumulate in stage order: the stage-1 failure reason first (there is at
// most one, since gates short-circuit), then stage-2 reasons.
func aggregate(cands *candidate.Candidates, s1 map[string]*filtering.Outcome, s2 []*stage2.Result) ([]*store.Outcome, *Summary) {
	byID := make(map[string]*stage2.Result, len(s2))
	for _, result := range s2 {
		byID[result.CandidateID] = result
	}

	summary := &Summary{}
	outcomes := make([]*store.Outcome, 0, cands.Len())

	for _, c := range cands.Items {
		stage1 := s1[c.ID]
		if stage1 == nil {
			continue
		}

		outcome := &store.Outcome{
			CandidateID:  c.ID,
			Stage1Passed: stage1.Passed,
			Reasons:      append([]string{}, stage1.Reasons...),
		}

		if !stage1.Passed {
			outcomes = append(outcomes, outcome)
			continue
		}
		summary.Stage1Passed++

		result, processed := byID[c.ID]
		if !processed {
			// wave discarded by cancellation; no record for this candidate
			continue
		}

		outcome.Stage2Passed = result.Passed
		outcome.Reasons = append(outcome.Reasons, result.Reasons...)
		if result.Passed {
			summary.Stage2Passed++
		}
		if result.Fallback {
			summary.Fallback++
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes, summary
}
