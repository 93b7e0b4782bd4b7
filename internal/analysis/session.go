package analysis

import (
	"context"
	"errors"
	"sync"

	"github.com/spigell/resume-matcher/internal/jobdesc"
	"github.com/spigell/resume-matcher/internal/resume"
)

// State is the phase of an interactive session.
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateShowing   State = "showing"
)

var ErrBusy = errors.New("analysis already in progress")

// Session holds the inputs and the last result of one user. It moves
// idle -> analyzing -> showing and back to idle on Reset, input changes or errors.
type Session struct {
	mu      sync.Mutex
	service *Service

	state      State
	generation int
	resume     *resume.Document
	jobText    string
	result     *Analysis
}

func NewSession(service *Service) *Session {
	return &Session{service: service, state: StateIdle}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Resume() *resume.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resume
}

func (s *Session) JobText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobText
}

// Result returns the analysis being shown, nil outside the showing state.
func (s *Session) Result() *Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SetResume replaces the resume. A shown result no longer matches the inputs and is dropped.
func (s *Session) SetResume(doc *resume.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume = doc
	s.dropResultLocked()
}

// ResumeLoader reads a resume from a path or object URI.
type ResumeLoader interface {
	Load(ctx context.Context, source string) (*resume.Document, error)
}

// SetResumeFile loads the resume at source. A rejected file clears the current resume.
func (s *Session) SetResumeFile(ctx context.Context, loader ResumeLoader, source string) (*resume.Document, error) {
	doc, err := loader.Load(ctx, source)
	if err != nil {
		doc = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume = doc
	s.dropResultLocked()
	return doc, err
}

func (s *Session) SetJob(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobText = text
	s.dropResultLocked()
}

// UseSampleJob fills the job description with the canned posting.
func (s *Session) UseSampleJob() {
	s.SetJob(jobdesc.Sample)
}

// Analyze scores the current inputs. Any error, ErrMissingInput included, leaves
// the session idle.
func (s *Session) Analyze(ctx context.Context) (*Analysis, error) {
	s.mu.Lock()
	if s.state == StateAnalyzing {
		s.mu.Unlock()
		return nil, ErrBusy
	}

	req := Request{JobText: s.jobText, Source: SourceCLI}
	if s.resume != nil {
		req.ResumeText = s.resume.Text
	}
	s.state = StateAnalyzing
	s.result = nil
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	analysis, err := s.service.Analyze(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Reset or new input during the analysis makes the answer stale.
	if generation != s.generation {
		if err == nil {
			err = context.Canceled
		}
		return nil, err
	}

	if err != nil {
		s.state = StateIdle
		return nil, err
	}

	s.state = StateShowing
	s.result = analysis
	return analysis, nil
}

// Reset clears the result and both inputs.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume = nil
	s.jobText = ""
	s.result = nil
	s.state = StateIdle
	s.generation++
}

func (s *Session) dropResultLocked() {
	if s.state == StateAnalyzing {
		s.generation++
	}
	s.result = nil
	s.state = StateIdle
}
