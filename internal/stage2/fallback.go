package stage2

import (
	"strings"

	"github.com/talentsift/talentsift/internal/candidate"
)

// FallbackEvaluate is the pure-deterministic secondary evaluation used when
// a batch could not be classified: role-duration threshold, parser-based
// must-have and exclude checks, a naive location substring check and
// education presence as the top-university proxy. It produces the same
// boolean decision shape as the classifier path so aggregation downstream
// stays uniform. The stage-2 target-company check is not applied here; it
// only runs on classifier-passed candidates.
func FallbackEvaluate(cfg *Config, c *candidate.Candidate) *Result {
	text := candidate.AggregateSearchableText(c)
	result := &Result{CandidateID: c.ID, Fallback: true}

	roleDurationPass := true
	if cfg.Rules.MinMonthsInRole > 0 && c.MonthsInRole < cfg.Rules.MinMonthsInRole {
		roleDurationPass = false
		result.Reasons = append(result.Reasons, reasonRoleDuration)
	}

	mustHavePass := true
	if cfg.Rules.HasMustHaveTerms() {
		det := evalTerms(cfg.Rules.MustHaveTerms, cfg.Synonyms, text)
		if !det.Found {
			mustHavePass = false
			result.Reasons = append(result.Reasons, reasonMustHave)
		}
	}

	excludePass := true
	if cfg.Rules.HasExcludeTerms() {
		det := evalTerms(cfg.Rules.ExcludeTerms, cfg.Synonyms, text)
		if det.Found {
			excludePass = false
			result.Reasons = append(result.Reasons, excludeReason(det.Matches))
		}
	}

	locationPass := true
	location := strings.ToLower(strings.TrimSpace(c.Location))
	if location != "" {
		for _, term := range cfg.Rules.LocationExclude {
			term = strings.ToLower(strings.TrimSpace(term))
			if term != "" && strings.Contains(location, term) {
				locationPass = false
				result.Reasons = append(result.Reasons, reasonLocation)
				break
			}
		}
	}

	topUniversityPass := true
	if cfg.Rules.RequireTopUniversity && strings.TrimSpace(c.Education) == "" {
		topUniversityPass = false
		result.Reasons = append(result.Reasons, reasonTopUniversity)
	}

	result.Passed = roleDurationPass && mustHavePass && excludePass &&
		locationPass && topUniversityPass

	return result
}
