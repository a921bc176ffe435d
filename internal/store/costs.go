package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/ai"
)

// CostLedger records token usage of classifier calls. Callers treat it as
// fire-and-forget; a recording failure never affects the run.
type CostLedger struct {
	store *Store
	model string
	scope Scope
}

// Costs returns a ledger bound to the given model and scope, satisfying
// stage2.CostRecorder.
func (s *Store) Costs(model string, sc Scope) *CostLedger {
	return &CostLedger{store: s, model: model, scope: sc}
}

// Record persists one classifier call's token usage.
func (l *CostLedger) Record(ctx context.Context, batchSize int, usage *ai.Usage) error {
	if usage == nil {
		return nil
	}

	_, err := l.store.pool.Exec(ctx,
		`INSERT INTO ai_cost_events
		   (id, user_id, job_id, model, batch_size, input_tokens, output_tokens)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), l.scope.UserID, l.scope.JobID, l.model, batchSize,
		usage.InputTokens, usage.OutputTokens,
	)
	if err != nil {
		return fmt.Errorf("record ai cost: %w", err)
	}
	return nil
}
