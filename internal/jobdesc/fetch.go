package jobdesc

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/utils"
)

const (
	defaultUserAgent = "resume-matcher"
	defaultTimeout   = 10 * time.Second
	acceptEncoding   = "gzip"
	// maxBodyBytes bounds how much of a posting page is read.
	maxBodyBytes = 5 << 20
)

// ErrEmptyPosting is returned when a fetched page has no readable text.
var ErrEmptyPosting = errors.New("job posting page has no text")

// noiseSelector lists page chrome that never belongs to a posting.
const noiseSelector = "nav, footer, header, script, style, noscript, iframe, form, .cookie-banner, .sidebar, .ads, .advertisement"

// postingSelectors are tried in order; body is the fallback.
var postingSelectors = []string{
	".job-description",
	"#job-description",
	".jobs-description",
	".posting-page",
	"[data-testid=jobDescriptionText]",
	"#content .job",
	"main",
	"article",
	"#content",
}

// Fetcher downloads job postings.
type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
	logger     *zap.Logger
}

// NewFetcher returns a Fetcher with the given timeout and user agent; zero values use defaults.
func NewFetcher(logger *zap.Logger, userAgent string, timeout time.Duration) *Fetcher {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fetcher{
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
		logger:     logger,
	}
}

// Fetch returns the posting text found at rawURL. Plain text responses are returned
// verbatim, HTML is reduced to its main content.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse job url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("job url must be http or https, got %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept-Encoding", acceptEncoding)
	req.Header.Set("Accept", "text/html, text/plain;q=0.9")

	f.logger.Debug("fetching job posting", zap.String("url", u.String()))

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch job posting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch job posting: bad status: %s", resp.Status)
	}

	body, err := readBody(resp)
	if err != nil {
		return "", fmt.Errorf("read job posting: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))

	var text string
	if mediaType == "text/plain" {
		text = string(body)
	} else {
		text, err = ExtractPostingText(string(body))
		if err != nil {
			return "", err
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyPosting
	}

	f.logger.Debug("fetched job posting",
		zap.String("url", u.String()),
		zap.Int("length", len(text)),
		zap.String("preview", utils.TruncateForLog(text, 120)),
	)

	return text, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	return io.ReadAll(io.LimitReader(body, maxBodyBytes))
}

// ExtractPostingText strips page chrome and returns the text of the posting body.
func ExtractPostingText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse job posting html: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	var content *goquery.Selection
	for _, selector := range postingSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	// Block elements carry no whitespace of their own in Text().
	content.Find("p, li, br, h1, h2, h3, h4, div, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return utils.CollapseWhitespace(content.Text()), nil
}
