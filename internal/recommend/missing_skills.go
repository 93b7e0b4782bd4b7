package recommend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/resume-matcher/internal/matcher"
)

const missingSkillTemplate = "Add experience with %s if you have it"

type missingSkillsStep struct {
	enabled bool
	reason  string
	matcher *matcher.Matcher
}

// NewMissingSkills creates the step that suggests vocabulary skills the job asks
// for and the resume lacks. A nil matcher uses the default vocabulary.
func NewMissingSkills(enabled bool, m *matcher.Matcher) Step {
	return &missingSkillsStep{enabled: enabled, matcher: m}
}

func (s *missingSkillsStep) Name() string { return "missing_skills" }

func (s *missingSkillsStep) Disable(reason string) {
	s.enabled = false
	s.reason = reason
}

func (s *missingSkillsStep) IsEnabled() bool { return s.enabled }

func (s *missingSkillsStep) Validate() error { return nil }

func (s *missingSkillsStep) Apply(_ context.Context, in Input, current []string) ([]string, Stats, error) {
	missing := s.matcher.MissingSkills(in.ResumeText, in.JobText)

	added := make([]string, 0, len(missing))
	for _, skill := range missing {
		added = append(added, fmt.Sprintf(missingSkillTemplate, skill))
	}

	next, stats := appendStats(current, added)
	return next, stats, nil
}

func (s *missingSkillsStep) Status() Status {
	return Status{
		Name:    s.Name(),
		Enabled: s.enabled,
		Reason:  s.reason,
		Details: map[string]string{"vocabulary_size": strconv.Itoa(len(s.matcher.Skills()))},
	}
}
