// Package analysis runs a resume against a job description and keeps the state of
// an interactive session.
package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matcher"
	"github.com/spigell/resume-matcher/internal/metrics"
	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/resume"
	"github.com/spigell/resume-matcher/internal/utils"
)

var ErrMissingInput = errors.New("please upload a resume and enter a job description")

const (
	SourceCLI  = "cli"
	SourceHTTP = "http"

	genericNotice  = "error processing file, please try again"
	canceledNotice = "analysis was cancelled"
)

// Request is the input of a single analysis.
type Request struct {
	ResumeText string
	JobText    string
	// Source labels metrics and logs, e.g. cli or http.
	Source string
}

// Analysis is a scored request ready to be rendered.
type Analysis struct {
	ID        string          `json:"id"`
	Result    *matcher.Result `json:"result"`
	Tiers     matcher.Tiers   `json:"tiers"`
	Headline  string          `json:"headline"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Service scores requests and fills in their recommendations.
type Service struct {
	matcher *matcher.Matcher
	steps   []recommend.Step
	delay   time.Duration
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService wires a service. Nil steps select the default recommendation pipeline.
func NewService(m *matcher.Matcher, steps []recommend.Step, delay time.Duration, log *zap.Logger) *Service {
	if m == nil {
		m = matcher.New(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if steps == nil {
		steps = recommend.New(recommend.DefaultConfig(), recommend.Deps{Matcher: m, Logger: log})
	}

	return &Service{
		matcher: m,
		steps:   steps,
		delay:   delay,
		logger:  log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Analyze validates the request, waits the configured delay and scores it.
func (s *Service) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	started := s.now()
	source := req.Source
	if source == "" {
		source = SourceCLI
	}

	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobText) == "" {
		metrics.ObserveAnalysis(source, metrics.OutcomeInvalidInput, s.now().Sub(started), 0)
		return nil, ErrMissingInput
	}

	id := s.newID()
	log := logger.WithFields(s.logger, zap.String(logger.FieldAnalysisID, id), zap.String("source", source))

	if err := utils.WaitFor(ctx, s.delay); err != nil {
		metrics.ObserveAnalysis(source, metrics.OutcomeError, s.now().Sub(started), 0)
		return nil, err
	}

	result := s.matcher.Score(req.ResumeText, req.JobText)

	recommendations, err := recommend.Run(ctx, log, s.steps, recommend.Input{
		ResumeText: req.ResumeText,
		JobText:    req.JobText,
		Result:     result,
	})
	if err != nil {
		metrics.ObserveAnalysis(source, metrics.OutcomeError, s.now().Sub(started), 0)
		return nil, err
	}
	result.Recommendations = recommendations

	analysis := &Analysis{
		ID:        id,
		Result:    result,
		Tiers:     result.Tiers(),
		Headline:  matcher.Headline(result.OverallScore),
		CreatedAt: s.now().UTC(),
	}

	metrics.ObserveAnalysis(source, metrics.OutcomeOK, s.now().Sub(started), result.OverallScore)
	log.Info("analysis completed", logger.ResultFields(result)...)

	return analysis, nil
}

// Notice maps an error to the sentence shown to the user.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingInput):
		return ErrMissingInput.Error()
	case errors.Is(err, resume.ErrUnsupportedType):
		return resume.ErrUnsupportedType.Error()
	case errors.Is(err, resume.ErrEmptyDocument):
		return resume.ErrEmptyDocument.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return canceledNotice
	default:
		return genericNotice
	}
}
