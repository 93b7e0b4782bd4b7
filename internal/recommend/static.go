package recommend

import (
	"context"

	"github.com/spigell/resume-matcher/internal/matcher"
)

type staticStep struct {
	enabled bool
	reason  string
}

// NewStatic creates the step that adds the fixed recommendations.
func NewStatic(enabled bool) Step {
	return &staticStep{enabled: enabled}
}

func (s *staticStep) Name() string { return "static" }

func (s *staticStep) Disable(reason string) {
	s.enabled = false
	s.reason = reason
}

func (s *staticStep) IsEnabled() bool { return s.enabled }

func (s *staticStep) Validate() error { return nil }

func (s *staticStep) Apply(_ context.Context, _ Input, current []string) ([]string, Stats, error) {
	next, stats := appendStats(current, matcher.DefaultRecommendations)
	return next, stats, nil
}

func (s *staticStep) Status() Status {
	return Status{Name: s.Name(), Enabled: s.enabled, Reason: s.reason}
}
