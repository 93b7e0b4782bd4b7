package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/matcher"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
	// FieldAnalysisID identifies a single analysis across log lines.
	FieldAnalysisID = "analysis_id"
	// FieldRequestID carries the X-Request-ID of an HTTP request.
	FieldRequestID = "request_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger, defaulting to a no-op
// logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns fields describing the AI provider and model. Empty values are skipped.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the common AI fields to the provided logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// ResultFields describes the scores of a match result.
func ResultFields(result *matcher.Result) []zap.Field {
	if result == nil {
		return nil
	}

	return []zap.Field{
		zap.Int("overall_score", result.OverallScore),
		zap.Int("skills_score", result.SkillsScore),
		zap.Int("keyword_score", result.KeywordScore),
		zap.Int("experience_score", result.ExperienceScore),
		zap.Strings("matched_skills", result.MatchedSkills),
	}
}
