// Package stage2 drives stage-1 survivors through the external semantic
// classifier in bounded waves of batches, reconciling the classifier's term
// verdicts against the deterministic matcher and falling back to a purely
// deterministic evaluation when a batch cannot be analyzed.
package stage2

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/candidate"
	"github.com/talentsift/talentsift/internal/logic"
	"github.com/talentsift/talentsift/internal/rules"
	"github.com/talentsift/talentsift/internal/synonyms"
)

const (
	maxBatchSize        = 15
	batchDivisor        = 6
	wavesConcurrency    = 3
	defaultBatchTimeout = 20 * time.Second
)

// Config carries everything a stage-2 evaluation needs besides the
// candidates themselves.
type Config struct {
	Rules           *rules.FilterRules
	Synonyms        []synonyms.Entry
	TargetCompanies []string
	BatchTimeout    time.Duration
}

func (c *Config) batchTimeout() time.Duration {
	if c == nil || c.BatchTimeout <= 0 {
		return defaultBatchTimeout
	}
	return c.BatchTimeout
}

// Result is the final per-candidate stage-2 outcome after reconciliation or
// fallback.
type Result struct {
	CandidateID string
	Passed      bool
	Reasons     []string
	Confidence  float64
	Fallback    bool
}

// Progress reports orchestrator advancement after each completed wave.
type Progress struct {
	Processed int
	Total     int
	Wave      int
}

// ProgressFunc receives progress events. Optional.
type ProgressFunc func(Progress)

// CostRecorder persists token usage of classifier calls. Recording is
// fire-and-forget: failures are logged, never propagated.
type CostRecorder interface {
	Record(ctx context.Context, batchSize int, usage *ai.Usage) error
}

// Orchestrator partitions candidates into batches and dispatches them to the
// classifier, up to three batches per wave.
type Orchestrator struct {
	classifier ai.Classifier
	logger     *zap.Logger
	costs      CostRecorder
	progress   ProgressFunc
}

func New(classifier ai.Classifier, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{classifier: classifier, logger: logger}
}

// WithCosts attaches a cost recorder.
func (o *Orchestrator) WithCosts(costs CostRecorder) *Orchestrator {
	o.costs = costs
	return o
}

// WithProgress attaches a progress callback.
func (o *Orchestrator) WithProgress(fn ProgressFunc) *Orchestrator {
	o.progress = fn
	return o
}

// BatchSize returns the per-batch candidate count for n survivors.
func BatchSize(n int) int {
	if n <= 0 {
		return 0
	}
	size := int(math.Ceil(float64(n) / float64(batchDivisor)))
	if size > maxBatchSize {
		size = maxBatchSize
	}
	return size
}

// Run evaluates all candidates and returns results for everyone processed
// before cancellation. Cancellation is honored at wave boundaries only: the
// current wave finishes (in-flight classifier calls are not interrupted, so
// their costs still get recorded) but its results are discarded, and no
// further waves are dispatched. Classifier failures never fail the run;
// affected batches fall back to the deterministic evaluation.
func (o *Orchestrator) Run(ctx context.Context, cfg *Config, cands []*candidate.Candidate) ([]*Result, error) {
	if cfg == nil || cfg.Rules == nil {
		return nil, errMissingRules
	}
	if len(cands) == 0 {
		return nil, nil
	}

	batches := partition(cands, BatchSize(len(cands)))
	results := make([]*Result, 0, len(cands))

	wave := 0
	for start := 0; start < len(batches); start += wavesConcurrency {
		if err := ctx.Err(); err != nil {
			o.logger.Info("cancellation requested; stopping before next wave",
				zap.Int("wave", wave),
				zap.Int("processed", len(results)),
			)
			break
		}

		end := start + wavesConcurrency
		if end > len(batches) {
			end = len(batches)
		}
		waveBatches := batches[start:end]
		waveResults := make([][]*Result, len(waveBatches))

		var g errgroup.Group
		for i, batch := range waveBatches {
			g.Go(func() error {
				waveResults[i] = o.runBatch(cfg, batch)
				return nil
			})
		}
		// batch errors are recovered inside runBatch; the group never fails
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			o.logger.Info("cancellation requested; discarding in-flight wave",
				zap.Int("wave", wave),
				zap.Int("processed", len(results)),
			)
			break
		}

		for _, rs := range waveResults {
			results = append(results, rs...)
		}

		if o.progress != nil {
			o.progress(Progress{Processed: len(results), Total: len(cands), Wave: wave})
		}
		wave++
	}

	return results, nil
}

func partition(cands []*candidate.Candidate, size int) [][]*candidate.Candidate {
	if size <= 0 {
		return nil
	}

	batches := make([][]*candidate.Candidate, 0, (len(cands)+size-1)/size)
	for start := 0; start < len(cands); start += size {
		end := start + size
		if end > len(cands) {
			end = len(cands)
		}
		batches = append(batches, cands[start:end])
	}
	return batches
}

// runBatch sends one batch to the classifier with the configured timeout.
// Any failure, including the explicit analysis-failed sentinel, sends the
// whole batch to the deterministic fallback. The batch context is rooted in
// Background, not the run context: a dispatched batch always runs to its
// timeout or completion and run cancellation takes effect between waves.
func (o *Orchestrator) runBatch(cfg *Config, batch []*candidate.Candidate) []*Result {
	bctx, cancel := context.WithTimeout(context.Background(), cfg.batchTimeout())
	defer cancel()

	verdicts, usage, err := o.classifier.ClassifyBatch(bctx, &ai.Request{
		Candidates: batch,
		Rules:      cfg.Rules,
		Synonyms:   cfg.Synonyms,
	})

	if usage != nil && o.costs != nil {
		if recErr := o.costs.Record(bctx, len(batch), usage); recErr != nil {
			o.logger.Debug("recording classifier cost failed", zap.Error(recErr))
		}
	}

	if err != nil {
		o.logger.Warn("batch classification failed; using deterministic fallback",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
		return o.fallbackBatch(cfg, batch)
	}

	byID := make(map[string]*ai.Verdict, len(verdicts))
	for _, v := range verdicts {
		byID[v.CandidateID] = v
	}

	results := make([]*Result, 0, len(batch))
	for _, c := range batch {
		verdict, ok := byID[c.ID]
		if !ok {
			o.logger.Warn("classifier returned no verdict for candidate; using deterministic fallback",
				zap.String("candidate_id", c.ID),
			)
			results = append(results, FallbackEvaluate(cfg, c))
			continue
		}
		results = append(results, Reconcile(verdict, c, cfg, o.logger))
	}
	return results
}

func (o *Orchestrator) fallbackBatch(cfg *Config, batch []*candidate.Candidate) []*Result {
	results := make([]*Result, 0, len(batch))
	for _, c := range batch {
		results = append(results, FallbackEvaluate(cfg, c))
	}
	return results
}

// evalTerms parses the expression, expands its leaf terms through the
// synonym table and evaluates the tree against the text. Callers must skip
// empty expressions; an empty tree never matches.
func evalTerms(expr string, syn []synonyms.Entry, text string) logic.Result {
	tree := logic.Parse(expr)
	expanded := synonyms.Expand(logic.Terms(tree), syn)
	return logic.Evaluate(tree, expanded, text)
}
