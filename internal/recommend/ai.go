package recommend

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/matcher"
)

type aiStep struct {
	enabled bool
	reason  string
	advisor ai.Advisor
	matcher *matcher.Matcher
	logger  *zap.Logger
}

// NewAI creates the step that asks the advisor for extra recommendations.
// Advisor failures are logged and leave the list unchanged.
func NewAI(enabled bool, advisor ai.Advisor, m *matcher.Matcher, logger *zap.Logger) Step {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &aiStep{enabled: enabled, advisor: advisor, matcher: m, logger: logger}
}

func (s *aiStep) Name() string { return "ai" }

func (s *aiStep) Disable(reason string) {
	s.enabled = false
	s.reason = reason
}

func (s *aiStep) IsEnabled() bool { return s.enabled }

func (s *aiStep) Validate() error {
	if s.advisor == nil {
		return errors.New("ai advisor is required when ai recommendations are enabled")
	}
	return nil
}

func (s *aiStep) Apply(ctx context.Context, in Input, current []string) ([]string, Stats, error) {
	advice, err := s.advisor.Advise(ctx, ai.AdviceRequest{
		ResumeText:    in.ResumeText,
		JobText:       in.JobText,
		Result:        in.Result,
		MissingSkills: s.matcher.MissingSkills(in.ResumeText, in.JobText),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return current, Stats{}, ctxErr
		}
		s.logger.Warn("AI recommendations failed", zap.Error(err))
		return current, Stats{Initial: len(current), Total: len(current)}, nil
	}

	if advice.Summary != "" {
		s.logger.Info("AI summary", zap.String("summary", advice.Summary))
	}

	next, stats := appendStats(current, advice.Recommendations)
	return next, stats, nil
}

func (s *aiStep) Status() Status {
	return Status{Name: s.Name(), Enabled: s.enabled, Reason: s.reason}
}
