// Package filtering implements the deterministic stage-1 pass: sequential
// list-membership gates applied to every candidate, short-circuiting on the
// first failure.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/candidate"
	"github.com/talentsift/talentsift/internal/rules"
)

// Gate represents a single stage-1 check applied to candidates. A gate is
// enabled by its rule flag (captured during Validate) and can additionally be
// disabled by name for one run; Run skips gates that are not enabled.
type Gate interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	// Check returns whether the candidate passes and, when it does not,
	// a human-readable reason.
	Check(c *candidate.Candidate) (bool, string)
}

// Deps aggregates dependencies shared across all gates.
type Deps struct {
	Logger *zap.Logger
}

// Lists holds the read-only company/university/name lists the gates consume.
type Lists struct {
	Blacklist            []string
	PastCandidates       []string
	NotRelevantCompanies []string
	WantedCompanies      []string
	TargetCompanies      []string
	WantedUniversities   []string
}

// Config contains configuration consumed by the gates.
type Config struct {
	Rules *rules.FilterRules
	Lists *Lists
}

// Step describes the result of executing one gate over the surviving set.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

// Outcome is the per-candidate stage-1 result. Reasons accumulate in gate
// order; with short-circuiting only the first failure is ever recorded.
type Outcome struct {
	Passed  bool
	Reasons []string
}

// Status represents runtime information about a gate.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by gates that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a gate with the provided name as disabled while keeping it in the list.
func DisableByName(gates []Gate, name, reason string) {
	for _, gate := range gates {
		if gate.Name() == name {
			gate.Disable(reason)
		}
	}
}

// Gates returns the stage-1 gates in their fixed evaluation order.
func Gates() []Gate {
	return []Gate{
		NewBlacklist(),
		NewPastCandidates(),
		NewNotRelevant(),
		NewWantedCompanies(),
		NewWantedUniversities(),
	}
}

// Validate prepares every gate for a run. Each gate captures its rule flag
// and lists from the configuration; IsEnabled is only meaningful afterwards.
func Validate(cfg *Config, gates []Gate) error {
	for _, gate := range gates {
		if err := gate.Validate(cfg); err != nil {
			return fmt.Errorf("%s: %w", gate.Name(), err)
		}
	}
	return nil
}

// Run executes the gates sequentially over the candidate set. A candidate
// dropped by one gate is never seen by later gates, so its outcome carries
// exactly the first failure reason. The returned map has an outcome for
// every input candidate.
func Run(ctx context.Context, cfg *Config, deps Deps, gates []Gate, cands *candidate.Candidates) (*candidate.Candidates, map[string]*Outcome, error) {
	if err := Validate(cfg, gates); err != nil {
		return nil, nil, err
	}

	outcomes := make(map[string]*Outcome, cands.Len())
	for _, c := range cands.Items {
		outcomes[c.ID] = &Outcome{Passed: true}
	}

	remaining := cands

	for _, gate := range gates {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		if !gate.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("gate disabled", zap.String("name", gate.Name()))
			}
			continue
		}

		initial := remaining.Len()
		survivors := make([]*candidate.Candidate, 0, initial)
		dropped := 0

		for _, c := range remaining.Items {
			pass, reason := gate.Check(c)
			if pass {
				survivors = append(survivors, c)
				continue
			}

			dropped++
			outcome := outcomes[c.ID]
			outcome.Passed = false
			outcome.Reasons = append(outcome.Reasons, reason)
		}

		remaining = &candidate.Candidates{Items: survivors}

		if deps.Logger != nil {
			deps.Logger.Info("gate step",
				zap.String("name", gate.Name()),
				zap.Int("initial", initial),
				zap.Int("dropped", dropped),
				zap.Int("left", remaining.Len()),
			)
		}
	}

	return remaining, outcomes, nil
}

// Describe returns status entries for the provided gates.
func Describe(gates []Gate) []Status {
	statuses := make([]Status, 0, len(gates))
	for _, gate := range gates {
		if reporter, ok := gate.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    gate.Name(),
			Enabled: gate.IsEnabled(),
		})
	}
	return statuses
}
