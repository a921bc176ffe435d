// Package rules defines the per-job filter rule set. One active rule set
// exists per job; it is edited elsewhere and consumed read-only here.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// FilterRules is the full per-job filtering configuration. Boolean flags
// enable the individual stage-1 gates; the term expressions feed the boolean
// expression parser in stage 2 and the deterministic fallback.
type FilterRules struct {
	JobID string `mapstructure:"job_id"`

	UseBlacklistFilter          bool `mapstructure:"use_blacklist_filter"`
	UsePastCandidatesFilter     bool `mapstructure:"use_past_candidates_filter"`
	UseNotRelevantFilter        bool `mapstructure:"use_not_relevant_filter"`
	UseWantedCompaniesFilter    bool `mapstructure:"use_wanted_companies_filter"`
	UseTargetCompaniesFilter    bool `mapstructure:"use_target_companies_filter"`
	UseWantedUniversitiesFilter bool `mapstructure:"use_wanted_universities_filter"`

	RequireTopUniversity bool `mapstructure:"require_top_university"`
	MinMonthsInRole      int  `mapstructure:"min_months_in_role"`
	MinYearsExperience   int  `mapstructure:"min_years_experience"`

	MustHaveTerms      string   `mapstructure:"must_have_terms"`
	ExcludeTerms       string   `mapstructure:"exclude_terms"`
	RequiredTitleTerms string   `mapstructure:"required_title_terms"`
	LocationExclude    []string `mapstructure:"location_exclude"`
}

// Decode builds a rule set from a loosely-typed configuration map, as stored
// by the configuration UI.
func Decode(raw map[string]any) (*FilterRules, error) {
	var r FilterRules

	cfg := &mapstructure.DecoderConfig{
		Result:           &r,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build rules decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode filter rules: %w", err)
	}

	return &r, nil
}

// Validate checks the rule set is runnable. A broken rule set fails the whole
// run before any candidate is touched.
func (r *FilterRules) Validate() error {
	if r == nil {
		return errors.New("filter rules are required")
	}
	if strings.TrimSpace(r.JobID) == "" {
		return errors.New("filter rules are missing a job id")
	}
	if r.MinMonthsInRole < 0 {
		return fmt.Errorf("min_months_in_role must not be negative, got %d", r.MinMonthsInRole)
	}
	if r.MinYearsExperience < 0 {
		return fmt.Errorf("min_years_experience must not be negative, got %d", r.MinYearsExperience)
	}
	return nil
}

// HasMustHaveTerms reports whether a must-have expression is configured.
// Empty expressions mean "no constraint" and are never evaluated.
func (r *FilterRules) HasMustHaveTerms() bool {
	return r != nil && strings.TrimSpace(r.MustHaveTerms) != ""
}

// HasExcludeTerms reports whether an exclude expression is configured.
func (r *FilterRules) HasExcludeTerms() bool {
	return r != nil && strings.TrimSpace(r.ExcludeTerms) != ""
}

// HasRequiredTitleTerms reports whether a required-title expression is
// configured.
func (r *FilterRules) HasRequiredTitleTerms() bool {
	return r != nil && strings.TrimSpace(r.RequiredTitleTerms) != ""
}
