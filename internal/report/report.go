// Package report renders an analysis for a terminal or as JSON.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/matcher"
)

// Format selects the rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

const (
	barWidth = 20

	noSkillsNotice = "No specific skills were matched. Consider adding more technical skills to your resume."
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts text or json, case-insensitively. Empty means text.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
	}
}

// Render writes the analysis in the given format.
func Render(w io.Writer, a *analysis.Analysis, format Format) error {
	if a == nil || a.Result == nil {
		return errors.New("nothing to render")
	}

	switch format {
	case FormatJSON:
		return RenderJSON(w, a)
	case FormatText, "":
		return RenderText(w, a)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func RenderJSON(w io.Writer, a *analysis.Analysis) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(a); err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	return nil
}

func RenderText(w io.Writer, a *analysis.Analysis) error {
	r := a.Result
	var b strings.Builder

	b.WriteString("Analysis Results\n\n")
	fmt.Fprintf(&b, "Overall Match Score: %d%% (%s)\n", r.OverallScore, a.Tiers.Overall)
	b.WriteString(a.Headline + "\n\n")

	writeScore(&b, "Skills Match", r.SkillsScore)
	writeScore(&b, "Keywords", r.KeywordScore)
	writeScore(&b, "Experience", r.ExperienceScore)

	b.WriteString("\nMatched Skills\n")
	if len(r.MatchedSkills) == 0 {
		b.WriteString("  " + noSkillsNotice + "\n")
	} else {
		b.WriteString("  " + strings.Join(r.MatchedSkills, ", ") + "\n")
	}

	b.WriteString("\nRecommendations for Improvement\n")
	for i, recommendation := range r.Recommendations {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, recommendation)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeScore(b *strings.Builder, label string, score int) {
	fmt.Fprintf(b, "%-13s %3d%%  %s  %s\n", label, score, Bar(score), matcher.TierOf(score))
}

// Bar draws the score as a fixed-width progress bar.
func Bar(score int) string {
	score = min(max(score, 0), 100)
	filled := int(math.Round(float64(score) * barWidth / 100))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}
