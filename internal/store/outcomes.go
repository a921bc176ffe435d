package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/util"
)

// Outcome is one persisted per-candidate filter result.
type Outcome struct {
	ID           uuid.UUID
	CandidateID  string
	Stage1Passed bool
	Stage2Passed bool
	Reasons      []string
}

const (
	outcomeChunkSize = 100
	// short pause between chunk inserts to stay under the hosted
	// backend's rate limits; not correctness-critical
	outcomeChunkDelay = 150 * time.Millisecond
)

// ReplaceOutcomes replaces the scope's outcome set in one transaction:
// delete everything for (user, job), then insert the fresh set in chunks.
// Every run is a full recompute; nothing is merged.
func (s *Store) ReplaceOutcomes(ctx context.Context, sc Scope, outcomes []*Outcome) error {
	if err := sc.validate(); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin outcomes transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM filter_outcomes WHERE user_id = $1 AND job_id = $2`,
		sc.UserID, sc.JobID,
	); err != nil {
		return fmt.Errorf("delete prior outcomes: %w", err)
	}

	for start := 0; start < len(outcomes); start += outcomeChunkSize {
		end := start + outcomeChunkSize
		if end > len(outcomes) {
			end = len(outcomes)
		}

		for _, o := range outcomes[start:end] {
			id := o.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO filter_outcomes
				   (id, user_id, job_id, candidate_id, stage_1_passed, stage_2_passed, filter_reasons)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				id, sc.UserID, sc.JobID, o.CandidateID, o.Stage1Passed, o.Stage2Passed, o.Reasons,
			); err != nil {
				return fmt.Errorf("insert outcome for candidate %s: %w", o.CandidateID, err)
			}
		}

		if end < len(outcomes) {
			if err := util.WaitFor(ctx, outcomeChunkDelay); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit outcomes transaction: %w", err)
	}

	return nil
}
