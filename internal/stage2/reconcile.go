package stage2

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/candidate"
	"github.com/talentsift/talentsift/internal/match"
)

var errMissingRules = errors.New("filter rules are required")

const (
	reasonRoleDuration  = "Role duration below threshold"
	reasonMustHave      = "Missing must-have terms"
	reasonExclude       = "Excluded term found"
	reasonLocation      = "Excluded location"
	reasonTopUniversity = "Not a top university"
	reasonTargetCompany = "Not in target companies"
)

// Reconcile cross-checks the classifier's must-have and exclude verdicts
// against the deterministic matcher and corrects them where the two
// disagree. The override rules are asymmetric on purpose.
//
// Must-have: when the classifier fails a candidate but the literal matcher
// finds the terms, the rejection is overridden to a pass. The opposite
// disagreement is logged but not overridden, because a semantic pass may
// rest on context the literal matcher cannot see.
//
// Exclude: overridden in both directions. A missed excluded term lets a
// rejected candidate through, which costs more than a must-have false
// positive, so the deterministic matcher always wins here.
func Reconcile(v *ai.Verdict, c *candidate.Candidate, cfg *Config, logger *zap.Logger) *Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	text := candidate.AggregateSearchableText(c)

	mustHavePass := v.MustHavePass
	if cfg.Rules.HasMustHaveTerms() {
		det := evalTerms(cfg.Rules.MustHaveTerms, cfg.Synonyms, text)
		switch {
		case !v.MustHavePass && det.Found:
			logger.Debug("overriding ai must-have rejection; terms found deterministically",
				zap.String("candidate_id", c.ID),
				zap.Strings("matches", det.Matches),
			)
			mustHavePass = true
		case v.MustHavePass && !det.Found:
			logger.Debug("ai passed must-have terms without a literal match; trusting ai",
				zap.String("candidate_id", c.ID),
			)
		}
	}

	excludePass := v.ExcludePass
	var excludeMatches []string
	if cfg.Rules.HasExcludeTerms() {
		det := evalTerms(cfg.Rules.ExcludeTerms, cfg.Synonyms, text)
		switch {
		case v.ExcludePass && det.Found:
			logger.Debug("overriding ai exclude pass; excluded terms found deterministically",
				zap.String("candidate_id", c.ID),
				zap.Strings("matches", det.Matches),
			)
			excludePass = false
			excludeMatches = det.Matches
		case !v.ExcludePass && !det.Found:
			logger.Debug("overriding ai exclude rejection; no excluded terms found deterministically",
				zap.String("candidate_id", c.ID),
			)
			excludePass = true
		}
	}

	targetPass := targetCompanyCheck(cfg, c)

	topUniversityPass := true
	if cfg.Rules.RequireTopUniversity {
		topUniversityPass = v.TopUniversityPass
	}

	result := &Result{
		CandidateID: c.ID,
		Confidence:  v.Confidence,
	}

	if !v.RoleDurationPass {
		result.Reasons = append(result.Reasons, reasonRoleDuration)
	}
	if !mustHavePass {
		result.Reasons = append(result.Reasons, reasonMustHave)
	}
	if !excludePass {
		result.Reasons = append(result.Reasons, excludeReason(excludeMatches))
	}
	if !v.LocationPass {
		result.Reasons = append(result.Reasons, reasonLocation)
	}
	if !topUniversityPass {
		result.Reasons = append(result.Reasons, reasonTopUniversity)
	}
	if !targetPass {
		result.Reasons = append(result.Reasons, reasonTargetCompany)
	}

	result.Passed = mustHavePass && excludePass && v.RoleDurationPass &&
		v.LocationPass && topUniversityPass && targetPass

	return result
}

// targetCompanyCheck applies the stage-2 target-company containment check.
// This check is independent of the stage-1 wanted/target gate; depending on
// flag combinations both may apply to the same list.
func targetCompanyCheck(cfg *Config, c *candidate.Candidate) bool {
	if cfg.Rules == nil || !cfg.Rules.UseTargetCompaniesFilter {
		return true
	}
	if len(cfg.TargetCompanies) == 0 {
		return true
	}

	for _, target := range cfg.TargetCompanies {
		if match.IsCompanyMatch(c.CurrentCompany, target) || match.IsCompanyMatch(c.PreviousCompany, target) {
			return true
		}
	}
	return false
}

func excludeReason(matches []string) string {
	if len(matches) == 0 {
		return reasonExclude
	}
	return fmt.Sprintf("%s: %s", reasonExclude, strings.Join(matches, ", "))
}
