package store

import (
	"context"
	"fmt"

	"github.com/talentsift/talentsift/internal/filtering"
)

// listQueries maps the stage-1 list kinds to their tables. Blacklist and
// target companies are global; the rest are scoped to (user, job).
var scopedListQueries = map[string]string{
	"past_candidates": `SELECT name FROM past_candidates WHERE user_id = $1 AND job_id = $2`,
	"not_relevant":    `SELECT company FROM not_relevant_companies WHERE user_id = $1 AND job_id = $2`,
	"wanted":          `SELECT company FROM wanted_companies WHERE user_id = $1 AND job_id = $2`,
	"universities":    `SELECT university FROM wanted_universities WHERE user_id = $1 AND job_id = $2`,
}

var globalListQueries = map[string]string{
	"blacklist": `SELECT company FROM blacklist_companies`,
	"target":    `SELECT company FROM target_companies`,
}

// Lists loads all stage-1 lists for the scope.
func (s *Store) Lists(ctx context.Context, sc Scope) (*filtering.Lists, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}

	lists := &filtering.Lists{}

	assign := func(kind string, values []string) {
		switch kind {
		case "blacklist":
			lists.Blacklist = values
		case "past_candidates":
			lists.PastCandidates = values
		case "not_relevant":
			lists.NotRelevantCompanies = values
		case "wanted":
			lists.WantedCompanies = values
		case "target":
			lists.TargetCompanies = values
		case "universities":
			lists.WantedUniversities = values
		}
	}

	for kind, query := range scopedListQueries {
		values, err := s.queryStrings(ctx, query, sc.UserID, sc.JobID)
		if err != nil {
			return nil, fmt.Errorf("load %s list: %w", kind, err)
		}
		assign(kind, values)
	}

	for kind, query := range globalListQueries {
		values, err := s.queryStrings(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("load %s list: %w", kind, err)
		}
		assign(kind, values)
	}

	return lists, nil
}

func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, rows.Err()
}
