// Package matcher scores how well a resume matches a job description.
package matcher

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	// skillsForFullScore is the number of common skills that saturates the skills score.
	skillsForFullScore = 5
	// keywordWeight scales the ratio of matched job words.
	keywordWeight = 200
	// minKeywordLength is the exclusive lower bound of a keyword length in runes.
	minKeywordLength = 3

	experienceMarker = "experience"
	// ExperienceFound is the experience score when the resume mentions experience.
	ExperienceFound = 85
	// ExperienceMissing is the experience score otherwise.
	ExperienceMissing = 60

	maxScore = 100
)

// DefaultSkills is the vocabulary used when no other is configured. Order matters:
// matched skills are reported in this order.
var DefaultSkills = []string{
	"javascript",
	"react",
	"node.js",
	"python",
	"sql",
	"css",
	"html",
	"java",
	"c++",
	"git",
	"aws",
	"docker",
	"kubernetes",
}

// DefaultRecommendations are returned for every input.
var DefaultRecommendations = []string{
	"Add more relevant keywords from the job description",
	"Highlight specific achievements with metrics",
	"Include industry-specific certifications",
}

var defaultMatcher = &Matcher{}

// Result is the outcome of a single resume to job comparison.
type Result struct {
	OverallScore    int      `json:"overallScore"`
	SkillsScore     int      `json:"skillsScore"`
	KeywordScore    int      `json:"keywordScore"`
	ExperienceScore int      `json:"experienceScore"`
	MatchedSkills   []string `json:"matchedSkills"`
	Recommendations []string `json:"recommendations"`
}

// Matcher holds the skill vocabulary. The zero value uses DefaultSkills.
type Matcher struct {
	skills []string
}

// New returns a Matcher for the given vocabulary. Skills are lower-cased, blanks and
// duplicates are dropped. An empty vocabulary falls back to DefaultSkills.
func New(skills []string) *Matcher {
	normalized := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || slices.Contains(normalized, skill) {
			continue
		}
		normalized = append(normalized, skill)
	}

	if len(normalized) == 0 {
		return &Matcher{}
	}

	return &Matcher{skills: normalized}
}

// Skills returns a copy of the vocabulary in use.
func (m *Matcher) Skills() []string {
	return slices.Clone(m.vocabulary())
}

func (m *Matcher) vocabulary() []string {
	if m == nil || len(m.skills) == 0 {
		return DefaultSkills
	}
	return m.skills
}

// Score compares the resume against the job description using DefaultSkills.
func Score(resumeText, jobText string) *Result {
	return defaultMatcher.Score(resumeText, jobText)
}

// Score compares the resume against the job description.
func (m *Matcher) Score(resumeText, jobText string) *Result {
	resume := strings.ToLower(resumeText)
	job := strings.ToLower(jobText)

	resumeWords := strings.Fields(resume)
	jobWords := strings.Fields(job)

	matched := m.matchSkills(resume, job)

	skills := int(math.Round(min(float64(len(matched))/skillsForFullScore*100, maxScore)))
	keyword := int(math.Round(keywordRatio(resumeWords, jobWords)))

	experience := ExperienceMissing
	if strings.Contains(resume, experienceMarker) {
		experience = ExperienceFound
	}

	return &Result{
		OverallScore:    Overall(skills, keyword, experience),
		SkillsScore:     skills,
		KeywordScore:    keyword,
		ExperienceScore: experience,
		MatchedSkills:   matched,
		Recommendations: slices.Clone(DefaultRecommendations),
	}
}

// MissingSkills returns vocabulary skills the job mentions but the resume does not,
// in vocabulary order.
func (m *Matcher) MissingSkills(resumeText, jobText string) []string {
	resume := strings.ToLower(resumeText)
	job := strings.ToLower(jobText)

	missing := make([]string, 0)
	for _, skill := range m.vocabulary() {
		if strings.Contains(job, skill) && !strings.Contains(resume, skill) {
			missing = append(missing, skill)
		}
	}
	return missing
}

// Overall is the rounded mean of the three sub-scores.
func Overall(skills, keyword, experience int) int {
	return int(math.Round(float64(skills+keyword+experience) / 3))
}

// matchSkills expects lower-cased texts. Containment is by substring, so "java"
// matches inside "javascript".
func (m *Matcher) matchSkills(resume, job string) []string {
	matched := make([]string, 0)
	for _, skill := range m.vocabulary() {
		if strings.Contains(resume, skill) && strings.Contains(job, skill) {
			matched = append(matched, skill)
		}
	}
	return matched
}

// keywordRatio counts job words (duplicates included) longer than minKeywordLength
// runes that appear verbatim among the resume words. No job words scores 0.
func keywordRatio(resumeWords, jobWords []string) float64 {
	if len(jobWords) == 0 {
		return 0
	}

	known := make(map[string]struct{}, len(resumeWords))
	for _, word := range resumeWords {
		known[word] = struct{}{}
	}

	matches := 0
	for _, word := range jobWords {
		if utf8.RuneCountInString(word) <= minKeywordLength {
			continue
		}
		if _, ok := known[word]; ok {
			matches++
		}
	}

	return min(float64(matches)/float64(len(jobWords))*keywordWeight, maxScore)
}
