// Package recommend builds the recommendation list of an analysis from an ordered
// set of steps.
package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/matcher"
)

// Step represents a single recommendation source.
type Step interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, in Input, current []string) ([]string, Stats, error)
}

// Input is what every step may look at.
type Input struct {
	ResumeText string
	JobText    string
	Result     *matcher.Result
}

// Stats describes the result of executing a step.
type Stats struct {
	Initial int
	Added   int
	Total   int
}

// Config selects the steps of the pipeline.
type Config struct {
	Static        bool
	MissingSkills bool
	AI            bool
}

// Deps aggregates collaborators shared across steps.
type Deps struct {
	Logger  *zap.Logger
	Matcher *matcher.Matcher
	Advisor ai.Advisor
}

// Status represents runtime information about a step.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// DefaultConfig reproduces the fixed recommendations only.
func DefaultConfig() Config {
	return Config{Static: true}
}

// New returns the pipeline in its fixed order: static, missing_skills, ai.
func New(cfg Config, deps Deps) []Step {
	return []Step{
		NewStatic(cfg.Static),
		NewMissingSkills(cfg.MissingSkills, deps.Matcher),
		NewAI(cfg.AI, deps.Advisor, deps.Matcher, deps.Logger),
	}
}

// DisableByName marks a step with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Step, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the enabled steps sequentially and returns the deduplicated list.
func Run(ctx context.Context, logger *zap.Logger, steps []Step, in Input) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	current := make([]string, 0)
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("recommendation step disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, in, current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Debug("recommendation step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("added", info.Added),
			zap.Int("total", info.Total),
		)

		current = next
	}

	return dedupe(current), nil
}

// Describe returns status entries for the provided steps.
func Describe(steps []Step) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func appendStats(current, added []string) ([]string, Stats) {
	next := append(current, added...)
	return next, Stats{Initial: len(current), Added: len(added), Total: len(next)}
}
