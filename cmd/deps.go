package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matcher"
	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/resume"
	"github.com/spigell/resume-matcher/internal/secrets"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

// newService wires the matcher, the recommendation pipeline and the advisor.
// An advisor that cannot be built disables the ai step instead of failing.
func newService(ctx context.Context, config *Config, log *zap.Logger) *analysis.Service {
	var skills []string
	if config.Matcher != nil {
		skills = config.Matcher.Skills
	}
	m := matcher.New(skills)

	pipeline := recommend.DefaultConfig()
	if config.Recommendations != nil {
		pipeline.Static = config.Recommendations.Static
		pipeline.MissingSkills = config.Recommendations.MissingSkills
	}

	deps := recommend.Deps{Logger: log, Matcher: m}

	if config.AI != nil && config.AI.Enabled {
		pipeline.AI = true
		advisor, err := newAdvisor(ctx, config.AI, log)
		if err != nil {
			log.Warn("skipping AI recommendations", zap.Error(err))
		}
		deps.Advisor = advisor
	}

	steps := recommend.New(pipeline, deps)
	if pipeline.AI && deps.Advisor == nil {
		recommend.DisableByName(steps, "ai", "advisor is not available")
	}

	for _, status := range recommend.Describe(steps) {
		log.Debug("recommendation step configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	return analysis.NewService(m, steps, config.analysisDelay(), log)
}

func (c *Config) analysisDelay() (delay time.Duration) {
	if c.Analysis != nil {
		delay = c.Analysis.Delay
	}
	return delay
}

func newAdvisor(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Advisor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	aiLogger := logger.WithFields(
		logger.WithCommonFields(log, gemini.Provider, cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, aiLogger)
	if err != nil {
		return nil, err
	}

	advisor := gemini.NewAdvisor(generator, aiLogger, cfg.Gemini.MaxLogLength)
	advisor.SetPromptOverrides(gemini.PromptOverrides{
		Tone:             cfg.Gemini.Tone,
		UserInstructions: cfg.Gemini.Instructions,
	})

	return advisor, nil
}

// newResumeLoader only builds an object storage client for s3:// sources.
func newResumeLoader(ctx context.Context, config *Config, source string) (*resume.Loader, error) {
	if !strings.HasPrefix(strings.TrimSpace(source), "s3://") {
		return resume.NewLoader(nil), nil
	}

	s3cfg, err := s3ClientConfig(config)
	if err != nil {
		return nil, err
	}

	objects, err := resume.NewS3Objects(ctx, s3cfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return resume.NewLoader(objects), nil
}

func s3ClientConfig(config *Config) (resume.S3Config, error) {
	s3cfg := &S3Config{MaxBytes: resume.DefaultMaxObjectBytes}
	if config.Storage != nil && config.Storage.S3 != nil {
		s3cfg = config.Storage.S3
	}

	secretKey := ""
	if s3cfg.AccessKey != "" {
		var err error
		secretKey, err = secrets.Load(secrets.Source{
			Name:  "s3 secret key",
			File:  s3cfg.SecretKeyFile,
			Value: s3cfg.SecretKey,
			Env:   "AWS_SECRET_ACCESS_KEY",
		})
		if err != nil {
			return resume.S3Config{}, err
		}
	}

	return resume.S3Config{
		Endpoint:  s3cfg.Endpoint,
		Region:    s3cfg.Region,
		AccessKey: s3cfg.AccessKey,
		SecretKey: secretKey,
		MaxBytes:  s3cfg.MaxBytes,
	}, nil
}
