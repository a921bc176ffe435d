// Package candidate defines the immutable candidate record consumed by the
// filtering engine. Records are produced by the upload pipeline and are
// read-only here.
package candidate

import "strings"

// Candidate is one imported candidate row. Optional fields are empty strings.
type Candidate struct {
	ID              string  `json:"id"`
	FullName        string  `json:"full_name"`
	CurrentCompany  string  `json:"current_company,omitempty"`
	PreviousCompany string  `json:"previous_company,omitempty"`
	CurrentTitle    string  `json:"current_title,omitempty"`
	Summary         string  `json:"summary,omitempty"`
	Education       string  `json:"education,omitempty"`
	Location        string  `json:"location,omitempty"`
	YearsExperience float64 `json:"years_experience,omitempty"`
	MonthsInRole    int     `json:"months_in_role,omitempty"`
	LinkedinURL     string  `json:"linkedin_url,omitempty"`
}

// AggregateSearchableText concatenates the fields that term matching runs
// against. Every matcher goes through this one function so the field set
// cannot drift between call sites.
func AggregateSearchableText(c *Candidate) string {
	if c == nil {
		return ""
	}

	parts := []string{
		c.CurrentTitle,
		c.Summary,
		c.Education,
		c.CurrentCompany,
		c.PreviousCompany,
	}

	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return strings.Join(nonEmpty, "\n")
}

// Candidates wraps a candidate list with a few helpers.
type Candidates struct {
	Items []*Candidate
}

func (c *Candidates) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// IDs returns the ids of all candidates in order.
func (c *Candidates) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// FindByID returns the candidate with the given id, or nil.
func (c *Candidates) FindByID(id string) *Candidate {
	if c == nil {
		return nil
	}
	for _, item := range c.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}
