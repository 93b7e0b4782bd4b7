package jobdesc

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

const postingHTML = `<html><head><style>.x{}</style></head><body>
<nav>Home Jobs Login</nav>
<div class="job-description"><h2>Go Engineer</h2><p>Build   services with Kubernetes.</p><ul><li>5 years experience</li><li>SQL</li></ul></div>
<footer>© corp</footer><script>var tracking = 1;</script>
</body></html>`

func TestExtractPostingText(t *testing.T) {
	t.Parallel()

	text, err := ExtractPostingText(postingHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := "Go Engineer\nBuild services with Kubernetes.\n5 years experience\nSQL"
	if text != expect {
		t.Fatalf("expected %q, got %q", expect, text)
	}
}

func TestExtractPostingTextFallsBackToBody(t *testing.T) {
	t.Parallel()

	text, err := ExtractPostingText(`<html><body><nav>menu</nav><p>Just text</p></body></html>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Just text" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFetch(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(postingHTML))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("  Python developer\n"))
		case "/gzip":
			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			_, _ = gz.Write([]byte("Docker and AWS"))
			_ = gz.Close()
			w.Header().Set("Content-Type", "text/plain")
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		case "/empty":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body><script>x()</script></body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(zap.NewNop(), "test-agent", time.Second)
	ctx := context.Background()

	text, err := fetcher.Fetch(ctx, server.URL+"/html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(text, "Go Engineer") {
		t.Fatalf("unexpected html text: %q", text)
	}
	if gotUserAgent != "test-agent" {
		t.Fatalf("expected custom user agent, got %q", gotUserAgent)
	}

	text, err = fetcher.Fetch(ctx, server.URL+"/plain")
	if err != nil || text != "  Python developer\n" {
		t.Fatalf("expected verbatim plain text, got %q (%v)", text, err)
	}

	text, err = fetcher.Fetch(ctx, server.URL+"/gzip")
	if err != nil || text != "Docker and AWS" {
		t.Fatalf("expected decompressed text, got %q (%v)", text, err)
	}

	if _, err := fetcher.Fetch(ctx, server.URL+"/empty"); !errors.Is(err, ErrEmptyPosting) {
		t.Fatalf("expected ErrEmptyPosting, got %v", err)
	}

	if _, err := fetcher.Fetch(ctx, server.URL+"/missing"); err == nil || !strings.Contains(err.Error(), "bad status") {
		t.Fatalf("expected bad status error, got %v", err)
	}
}

func TestFetchRejectsNonHTTP(t *testing.T) {
	t.Parallel()

	_, err := NewFetcher(nil, "", 0).Fetch(context.Background(), "file:///etc/passwd")
	if err == nil || !strings.Contains(err.Error(), "must be http or https") {
		t.Fatalf("expected scheme error, got %v", err)
	}
}

func TestSampleMentionsVocabulary(t *testing.T) {
	t.Parallel()

	for _, word := range []string{"React.js", "JavaScript", "Node.js", "Git", "AWS", "Docker"} {
		if !strings.Contains(Sample, word) {
			t.Fatalf("expected sample posting to mention %s", word)
		}
	}
}
