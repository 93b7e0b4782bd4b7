package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/utils"
)

// Provider is the provider name used in configuration and logs.
const Provider = "gemini"

const (
	defaultMaxLogLength     = 200
	defaultTone             = "Friendly"
	maxUserInstructionRunes = 500
	noneValue               = "none"
)

//go:embed system.md
var systemInstruction string

//go:embed prompt.md
var promptTemplate string

//go:embed advice.schema.json
var adviceSchema string

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(adviceSchema))
})

// ErrInvalidResponse is returned when the model answer does not satisfy the advice schema.
var ErrInvalidResponse = errors.New("invalid gemini response")

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// PromptOverrides are user preferences injected into the prompt.
type PromptOverrides struct {
	Tone             string
	UserInstructions string
}

// Advisor asks Gemini for resume recommendations.
type Advisor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	overrides PromptOverrides
}

type adviceResponse struct {
	Summary         string   `mapstructure:"summary"`
	Recommendations []string `mapstructure:"recommendations"`
}

func NewAdvisor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Advisor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Advisor) SetPromptOverrides(overrides PromptOverrides) {
	a.overrides = overrides
}

func (a *Advisor) Advise(ctx context.Context, req ai.AdviceRequest) (*ai.Advice, error) {
	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobText) == "" {
		return nil, errors.New("resume and job description are required")
	}

	prompt := a.buildPrompt(req)
	log := logger.WithCommonFields(a.logger, Provider, a.generator.Model())

	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	advice, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	advice.Raw = raw
	return advice, nil
}

func (a *Advisor) buildPrompt(req ai.AdviceRequest) string {
	tone := sanitizeSingleLine(a.overrides.Tone)
	if tone == "" {
		tone = defaultTone
	}

	replacer := strings.NewReplacer(
		"{{SCORES}}", scoresBlock(req),
		"{{TONE}}", tone,
		"{{USER_INSTRUCTIONS}}", userInstructionsBlock(a.overrides.UserInstructions),
		"{{RESUME}}", strings.TrimSpace(req.ResumeText),
		"{{JOB}}", strings.TrimSpace(req.JobText),
	)
	return replacer.Replace(promptTemplate)
}

func scoresBlock(req ai.AdviceRequest) string {
	missing := noneValue
	if len(req.MissingSkills) > 0 {
		missing = strings.Join(req.MissingSkills, ", ")
	}

	if req.Result == nil {
		return "- Skills missing from the resume: " + missing
	}

	matched := noneValue
	if len(req.Result.MatchedSkills) > 0 {
		matched = strings.Join(req.Result.MatchedSkills, ", ")
	}

	lines := []string{
		fmt.Sprintf("- Overall: %d/100", req.Result.OverallScore),
		fmt.Sprintf("- Skills: %d/100", req.Result.SkillsScore),
		fmt.Sprintf("- Keywords: %d/100", req.Result.KeywordScore),
		fmt.Sprintf("- Experience: %d/100", req.Result.ExperienceScore),
		"- Matched skills: " + matched,
		"- Skills missing from the resume: " + missing,
	}
	return strings.Join(lines, "\n")
}

// sanitizeSingleLine flattens a value to one line and neutralizes square brackets
// so it cannot open a new prompt section.
func sanitizeSingleLine(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	return neutralizeBrackets(value)
}

func neutralizeBrackets(value string) string {
	return strings.NewReplacer("[", "(", "]", ")").Replace(value)
}

func userInstructionsBlock(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "  - " + noneValue
	}

	runes := []rune(value)
	if len(runes) > maxUserInstructionRunes {
		value = string(runes[:maxUserInstructionRunes])
	}

	lines := make([]string, 0)
	for _, line := range strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n") {
		line = sanitizeSingleLine(line)
		if line == "" {
			continue
		}
		lines = append(lines, "  - "+line)
	}
	if len(lines) == 0 {
		return "  - " + noneValue
	}
	return strings.Join(lines, "\n")
}

func parseResponse(raw string) (*ai.Advice, error) {
	cleaned := extractJSON(raw)

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("load advice schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, problem := range result.Errors() {
			problems = append(problems, problem.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(problems, "; "))
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var decoded adviceResponse
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &decoded,
	})
	if err != nil {
		return nil, fmt.Errorf("create response decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	recommendations := make([]string, 0, len(decoded.Recommendations))
	for _, item := range decoded.Recommendations {
		if item = strings.TrimSpace(item); item != "" {
			recommendations = append(recommendations, item)
		}
	}

	return &ai.Advice{
		Summary:         strings.TrimSpace(decoded.Summary),
		Recommendations: recommendations,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
