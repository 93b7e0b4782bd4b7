package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/jobdesc"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/report"
	"github.com/spigell/resume-matcher/internal/resume"
)

const stdinMarker = "-"

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "resume file (.txt, .pdf, .docx) or s3://bucket/key")
	analyzeCmd.Flags().String("job", "", "job description text")
	analyzeCmd.Flags().String("job-file", "", "file with the job description, - reads stdin")
	analyzeCmd.Flags().String("job-url", "", "fetch the job description from a web page")
	analyzeCmd.Flags().Bool("sample-job", false, "use the built-in sample job description")
	analyzeCmd.Flags().StringP("output", "o", string(report.FormatText), "output format: text or json")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "start an interactive session")

	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-file", "job-url", "sample-job")
}

// analyze is the main command for the cli.
func analyze(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), logger.Stderr)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	format, err := report.ParseFormat(flagString(cmd, "output"))
	if err != nil {
		logger.Fatal("parsing output format", zap.Error(err))
	}

	logger.Debug("starting the analysis", zap.String("version", version))

	service := newService(ctx, config, logger)
	resumeSource := flagString(cmd, "resume")

	if flagBool(cmd, "interactive") {
		interactive := &interactiveSession{
			session: analysis.NewSession(service),
			fetcher: newFetcher(config, logger),
			logger:  logger,
			out:     os.Stdout,
			format:  format,
			config:  config,
		}
		if err := interactive.prefill(ctx, resumeSource, jobFlags(cmd)); err != nil {
			logger.Warn("ignoring initial input", zap.String("notice", analysis.Notice(err)), zap.Error(err))
		}
		if err := interactive.run(ctx); err != nil && !errors.Is(err, errExit) {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	if resumeSource == "" {
		logger.Fatal("resume is required", zap.String("hint", "pass --resume or use --interactive"))
	}

	loader, err := newResumeLoader(ctx, config, resumeSource)
	if err != nil {
		logger.Fatal("preparing resume storage", zap.Error(err))
	}

	doc, err := loader.Load(ctx, resumeSource)
	if err != nil {
		logger.Fatal(analysis.Notice(err), zap.String("resume", resumeSource), zap.Error(err))
	}
	logger.Debug("resume loaded", zap.String("name", doc.Name), zap.String("kind", string(doc.Kind)))

	jobText, err := resolveJobText(ctx, jobFlags(cmd), os.Stdin, newFetcher(config, logger))
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err))
	}

	result, err := service.Analyze(ctx, analysis.Request{
		ResumeText: doc.Text,
		JobText:    jobText,
		Source:     analysis.SourceCLI,
	})
	if err != nil {
		logger.Fatal(analysis.Notice(err), zap.Error(err))
	}

	if err := report.Render(os.Stdout, result, format); err != nil {
		logger.Fatal("rendering the report", zap.Error(err))
	}
}

// jobSource collects the job description flags.
type jobSource struct {
	Text   string
	File   string
	URL    string
	Sample bool
}

func jobFlags(cmd *cobra.Command) jobSource {
	return jobSource{
		Text:   flagValue(cmd, "job"),
		File:   flagString(cmd, "job-file"),
		URL:    flagString(cmd, "job-url"),
		Sample: flagBool(cmd, "sample-job"),
	}
}

func (s jobSource) empty() bool {
	return s.Text == "" && s.File == "" && s.URL == "" && !s.Sample
}

type postingFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

func newFetcher(config *Config, log *zap.Logger) *jobdesc.Fetcher {
	fetch := &FetchConfig{}
	if config.Fetch != nil {
		fetch = config.Fetch
	}
	return jobdesc.NewFetcher(log, fetch.UserAgent, fetch.Timeout)
}

// resolveJobText returns the job description verbatim from the selected source.
func resolveJobText(ctx context.Context, src jobSource, stdin io.Reader, fetcher postingFetcher) (string, error) {
	switch {
	case src.Sample:
		return jobdesc.Sample, nil
	case src.Text != "":
		return src.Text, nil
	case src.File == stdinMarker:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read job description from stdin: %w", err)
		}
		return string(data), nil
	case src.File != "":
		data, err := os.ReadFile(src.File)
		if err != nil {
			return "", fmt.Errorf("read job description file: %w", err)
		}
		return string(data), nil
	case src.URL != "":
		return fetcher.Fetch(ctx, src.URL)
	default:
		return "", analysis.ErrMissingInput
	}
}

func flagString(cmd *cobra.Command, name string) string {
	return strings.TrimSpace(flagValue(cmd, name))
}

// flagValue returns the flag untouched; job text is kept verbatim.
func flagValue(cmd *cobra.Command, name string) string {
	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

func flagBool(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}

func describeResume(doc *resume.Document) string {
	if doc == nil {
		return "none"
	}
	return fmt.Sprintf("%s (%s)", doc.Name, doc.Kind)
}
