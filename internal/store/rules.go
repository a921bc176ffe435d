package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/talentsift/talentsift/internal/rules"
)

// Rules loads the active filter rule set for the scope's job. The rule set
// is stored as a JSONB config blob written by the configuration UI; it is
// decoded leniently since that side is loosely typed.
func (s *Store) Rules(ctx context.Context, sc Scope) (*rules.FilterRules, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}

	var config []byte
	err := s.pool.QueryRow(ctx,
		`SELECT config FROM filter_rules
		 WHERE user_id = $1 AND job_id = $2 AND active
		 ORDER BY version DESC
		 LIMIT 1`,
		sc.UserID, sc.JobID,
	).Scan(&config)
	if err != nil {
		return nil, rulesQueryErr(err, sc.JobID)
	}

	var raw map[string]any
	if err := json.Unmarshal(config, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal filter rules config: %w", err)
	}

	r, err := rules.Decode(raw)
	if err != nil {
		return nil, err
	}
	if r.JobID == "" {
		r.JobID = sc.JobID
	}

	return r, nil
}

// rulesQueryErr maps a rules query failure to a caller-facing error. pgx may
// wrap ErrNoRows, so the sentinel is unwrapped rather than compared directly.
func rulesQueryErr(err error, jobID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("no active filter rules for job %s", jobID)
	}
	return fmt.Errorf("query filter rules: %w", err)
}
