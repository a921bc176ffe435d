package store

import (
	"context"
	"fmt"

	"github.com/talentsift/talentsift/internal/candidate"
)

// Candidates returns every candidate uploaded for the scope's job, in upload
// order. The engine consumes the full set for one run; there is no paging.
func (s *Store) Candidates(ctx context.Context, sc Scope) (*candidate.Candidates, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, full_name,
		        COALESCE(current_company, ''), COALESCE(previous_company, ''),
		        COALESCE(current_title, ''), COALESCE(summary, ''),
		        COALESCE(education, ''), COALESCE(location, ''),
		        COALESCE(years_experience, 0), COALESCE(months_in_role, 0),
		        COALESCE(linkedin_url, '')
		 FROM candidates
		 WHERE user_id = $1 AND job_id = $2
		 ORDER BY created_at, id`,
		sc.UserID, sc.JobID,
	)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	out := &candidate.Candidates{}
	for rows.Next() {
		var c candidate.Candidate
		if err := rows.Scan(
			&c.ID, &c.FullName,
			&c.CurrentCompany, &c.PreviousCompany,
			&c.CurrentTitle, &c.Summary,
			&c.Education, &c.Location,
			&c.YearsExperience, &c.MonthsInRole,
			&c.LinkedinURL,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out.Items = append(out.Items, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return out, nil
}
