package store

import (
	"context"
	"fmt"

	"github.com/talentsift/talentsift/internal/synonyms"
)

// Synonyms returns the global synonym table.
func (s *Store) Synonyms(ctx context.Context) ([]synonyms.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT canonical_term, variant_term, COALESCE(category, '') FROM synonyms`,
	)
	if err != nil {
		return nil, fmt.Errorf("query synonyms: %w", err)
	}
	defer rows.Close()

	var out []synonyms.Entry
	for rows.Next() {
		var entry synonyms.Entry
		if err := rows.Scan(&entry.Canonical, &entry.Variant, &entry.Category); err != nil {
			return nil, fmt.Errorf("scan synonym: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate synonyms: %w", err)
	}

	return out, nil
}
