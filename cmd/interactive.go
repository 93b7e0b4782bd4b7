package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/report"
)

const (
	PromptLoadResume     = "Load resume file"
	PromptEnterJob       = "Enter job description"
	PromptJobFile        = "Read job description from file"
	PromptJobURL         = "Fetch job description from URL"
	PromptSampleJob      = "Try sample job description"
	PromptAnalyze        = "Analyze match"
	PromptShowJSON       = "Show as JSON"
	PromptAnalyzeAnother = "Analyze another resume"
	PromptExit           = "Exit"
)

var errExit = errors.New("exit requested")

type selectFunc func(label string, items []string) (string, error)

type inputFunc func(label string) (string, error)

// interactiveSession drives an analysis.Session from terminal prompts.
type interactiveSession struct {
	session *analysis.Session
	fetcher postingFetcher
	logger  *zap.Logger
	out     io.Writer
	format  report.Format
	config  *Config

	selectFn selectFunc
	inputFn  inputFunc
}

func promptSelect(label string, items []string) (string, error) {
	prompt := promptui.Select{Label: label, Items: items, Size: len(items)}
	_, selected, err := prompt.Run()
	return selected, err
}

func promptInput(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}
	return prompt.Run()
}

// prefill loads inputs given as flags before the first prompt.
func (s *interactiveSession) prefill(ctx context.Context, resumeSource string, job jobSource) error {
	if resumeSource != "" {
		if err := s.loadResume(ctx, resumeSource); err != nil {
			return err
		}
	}
	if job.empty() {
		return nil
	}

	text, err := resolveJobText(ctx, job, strings.NewReader(""), s.fetcher)
	if err != nil {
		return err
	}
	s.session.SetJob(text)
	return nil
}

func (s *interactiveSession) run(ctx context.Context) error {
	if s.selectFn == nil {
		s.selectFn = promptSelect
	}
	if s.inputFn == nil {
		s.inputFn = promptInput
	}

	for {
		action, err := s.selectFn(s.label(), s.menu())
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return errExit
			}
			return err
		}

		if err := s.handle(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn(analysis.Notice(err), zap.String("action", action), zap.Error(err))
		}
	}
}

func (s *interactiveSession) menu() []string {
	if s.session.State() == analysis.StateShowing {
		return []string{PromptShowJSON, PromptAnalyzeAnother, PromptExit}
	}
	return []string{PromptLoadResume, PromptEnterJob, PromptJobFile, PromptJobURL, PromptSampleJob, PromptAnalyze, PromptExit}
}

func (s *interactiveSession) label() string {
	if s.session.State() == analysis.StateShowing {
		return "Results are ready"
	}
	return fmt.Sprintf("Resume: %s | Job description: %d characters",
		describeResume(s.session.Resume()), len([]rune(s.session.JobText())))
}

func (s *interactiveSession) handle(ctx context.Context, action string) error {
	switch action {
	case PromptLoadResume:
		path, err := s.inputFn("Resume file or s3:// URI")
		if err != nil {
			return err
		}
		return s.loadResume(ctx, path)
	case PromptEnterJob:
		text, err := s.inputFn("Job description")
		if err != nil {
			return err
		}
		s.session.SetJob(text)
		return nil
	case PromptJobFile:
		path, err := s.inputFn("Job description file")
		if err != nil {
			return err
		}
		return s.setJobFrom(ctx, jobSource{File: strings.TrimSpace(path)})
	case PromptJobURL:
		url, err := s.inputFn("Job posting URL")
		if err != nil {
			return err
		}
		return s.setJobFrom(ctx, jobSource{URL: strings.TrimSpace(url)})
	case PromptSampleJob:
		s.session.UseSampleJob()
		return nil
	case PromptAnalyze:
		fmt.Fprintln(s.out, "Analyzing...")
		result, err := s.session.Analyze(ctx)
		if err != nil {
			return err
		}
		return report.Render(s.out, result, s.format)
	case PromptShowJSON:
		return report.Render(s.out, s.session.Result(), report.FormatJSON)
	case PromptAnalyzeAnother:
		s.session.Reset()
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *interactiveSession) loadResume(ctx context.Context, source string) error {
	source = strings.TrimSpace(source)
	loader, err := newResumeLoader(ctx, s.config, source)
	if err != nil {
		return err
	}

	doc, err := s.session.SetResumeFile(ctx, loader, source)
	if err != nil {
		return err
	}

	s.logger.Info("resume loaded", zap.String("name", doc.Name), zap.String("kind", string(doc.Kind)))
	return nil
}

func (s *interactiveSession) setJobFrom(ctx context.Context, src jobSource) error {
	text, err := resolveJobText(ctx, src, strings.NewReader(""), s.fetcher)
	if err != nil {
		return err
	}
	s.session.SetJob(text)
	return nil
}
