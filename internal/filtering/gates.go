package filtering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talentsift/talentsift/internal/candidate"
	"github.com/talentsift/talentsift/internal/match"
)

// gateState carries the enabled/disabled bookkeeping shared by all gates.
// enabled reflects the rule flag captured during Validate; a non-empty
// disabledReason overrides it for the run.
type gateState struct {
	enabled        bool
	disabledReason string
}

func (g *gateState) Disable(reason string) { g.disabledReason = reason }

func (g *gateState) IsEnabled() bool { return g.enabled && g.disabledReason == "" }

type blacklistGate struct {
	gateState
	companies []string
}

// NewBlacklist creates the gate that rejects candidates whose current
// company is on the blacklist.
func NewBlacklist() Gate {
	return &blacklistGate{}
}

func (g *blacklistGate) Name() string { return "blacklist" }

func (g *blacklistGate) Validate(cfg *Config) error {
	g.enabled = false
	g.companies = nil
	if cfg == nil || cfg.Rules == nil || cfg.Lists == nil {
		return fmt.Errorf("rules and lists are required")
	}
	g.enabled = cfg.Rules.UseBlacklistFilter
	g.companies = append(g.companies, cfg.Lists.Blacklist...)
	return nil
}

func (g *blacklistGate) Check(c *candidate.Candidate) (bool, string) {
	if !g.IsEnabled() || len(g.companies) == 0 {
		return true, ""
	}

	for _, company := range g.companies {
		if match.IsCompanyMatch(c.CurrentCompany, company) {
			return false, fmt.Sprintf("Blacklisted company: %s", company)
		}
	}
	return true, ""
}

func (g *blacklistGate) Status() Status {
	return Status{
		Name:    g.Name(),
		Enabled: g.IsEnabled(),
		Reason:  g.disabledReason,
		Details: map[string]string{"companies": strconv.Itoa(len(g.companies))},
	}
}

type pastCandidatesGate struct {
	gateState
	names []string
}

// NewPastCandidates creates the gate that rejects candidates already seen in
// earlier hiring rounds, by exact case-insensitive name match.
func NewPastCandidates() Gate {
	return &pastCandidatesGate{}
}

func (g *pastCandidatesGate) Name() string { return "past_candidates" }

func (g *pastCandidatesGate) Validate(cfg *Config) error {
	g.enabled = false
	g.names = nil
	if cfg == nil || cfg.Rules == nil || cfg.Lists == nil {
		return fmt.Errorf("rules and lists are required")
	}
	g.enabled = cfg.Rules.UsePastCandidatesFilter
	g.names = append(g.names, cfg.Lists.PastCandidates...)
	return nil
}

func (g *pastCandidatesGate) Check(c *candidate.Candidate) (bool, string) {
	if !g.IsEnabled() || len(g.names) == 0 {
		return true, ""
	}

	for _, name := range g.names {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(c.FullName)) {
			return false, "Past candidate"
		}
	}
	return true, ""
}

type notRelevantGate struct {
	gateState
	companies []string
}

// NewNotRelevant creates the gate that rejects candidates whose current or
// previous company is marked not relevant.
func NewNotRelevant() Gate {
	return &notRelevantGate{}
}

func (g *notRelevantGate) Name() string { return "not_relevant" }

func (g *notRelevantGate) Validate(cfg *Config) error {
	g.enabled = false
	g.companies = nil
	if cfg == nil || cfg.Rules == nil || cfg.Lists == nil {
		return fmt.Errorf("rules and lists are required")
	}
	g.enabled = cfg.Rules.UseNotRelevantFilter
	g.companies = append(g.companies, cfg.Lists.NotRelevantCompanies...)
	return nil
}

func (g *notRelevantGate) Check(c *candidate.Candidate) (bool, string) {
	if !g.IsEnabled() || len(g.companies) == 0 {
		return true, ""
	}

	for _, company := range g.companies {
		if match.IsCompanyMatch(c.CurrentCompany, company) || match.IsCompanyMatch(c.PreviousCompany, company) {
			return false, fmt.Sprintf("Not relevant company: %s", company)
		}
	}
	return true, ""
}

type wantedCompaniesGate struct {
	gateState
	accepted []string
}

// NewWantedCompanies creates the gate that keeps only candidates coming from
// an accepted company. The accepted set is the user's wanted list, optionally
// extended with the global target list; with no wanted list the target list
// alone applies; with neither the gate stays disabled.
func NewWantedCompanies() Gate {
	return &wantedCompaniesGate{}
}

func (g *wantedCompaniesGate) Name() string { return "wanted_companies" }

func (g *wantedCompaniesGate) Validate(cfg *Config) error {
	g.enabled = false
	g.accepted = nil
	if cfg == nil || cfg.Rules == nil || cfg.Lists == nil {
		return fmt.Errorf("rules and lists are required")
	}

	r, lists := cfg.Rules, cfg.Lists
	switch {
	case r.UseWantedCompaniesFilter && len(lists.WantedCompanies) > 0:
		g.accepted = append(g.accepted, lists.WantedCompanies...)
		if r.UseTargetCompaniesFilter {
			g.accepted = append(g.accepted, lists.TargetCompanies...)
		}
	case len(lists.WantedCompanies) == 0 && r.UseTargetCompaniesFilter:
		g.accepted = append(g.accepted, lists.TargetCompanies...)
	}
	g.enabled = len(g.accepted) > 0
	return nil
}

func (g *wantedCompaniesGate) Check(c *candidate.Candidate) (bool, string) {
	if !g.IsEnabled() || len(g.accepted) == 0 {
		return true, ""
	}

	for _, company := range g.accepted {
		if match.IsCompanyMatch(c.CurrentCompany, company) || match.IsCompanyMatch(c.PreviousCompany, company) {
			return true, ""
		}
	}
	return false, "Not from wanted companies"
}

func (g *wantedCompaniesGate) Status() Status {
	return Status{
		Name:    g.Name(),
		Enabled: g.IsEnabled(),
		Reason:  g.disabledReason,
		Details: map[string]string{"accepted": strconv.Itoa(len(g.accepted))},
	}
}

type wantedUniversitiesGate struct {
	gateState
	universities []string
}

// NewWantedUniversities creates the gate that keeps only candidates educated
// at one of the wanted universities.
func NewWantedUniversities() Gate {
	return &wantedUniversitiesGate{}
}

func (g *wantedUniversitiesGate) Name() string { return "wanted_universities" }

func (g *wantedUniversitiesGate) Validate(cfg *Config) error {
	g.enabled = false
	g.universities = nil
	if cfg == nil || cfg.Rules == nil || cfg.Lists == nil {
		return fmt.Errorf("rules and lists are required")
	}
	g.enabled = cfg.Rules.UseWantedUniversitiesFilter
	g.universities = append(g.universities, cfg.Lists.WantedUniversities...)
	return nil
}

func (g *wantedUniversitiesGate) Check(c *candidate.Candidate) (bool, string) {
	if !g.IsEnabled() || len(g.universities) == 0 {
		return true, ""
	}

	for _, u := range g.universities {
		if match.IsUniversityMatch(c.Education, u) {
			return true, ""
		}
	}
	return false, "University not in wanted list"
}
