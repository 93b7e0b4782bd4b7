// Package ai defines the contract for model-backed resume advice.
package ai

import (
	"context"

	"github.com/spigell/resume-matcher/internal/matcher"
)

// AdviceRequest carries everything an advisor may look at.
type AdviceRequest struct {
	ResumeText    string
	JobText       string
	Result        *matcher.Result
	MissingSkills []string
}

// Advice is the advisor answer.
type Advice struct {
	Recommendations []string
	Summary         string
	Raw             string
}

type Advisor interface {
	Advise(ctx context.Context, req AdviceRequest) (*Advice, error)
}
