// Package resume turns uploaded resume documents into plain text.
package resume

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spigell/resume-matcher/internal/metrics"
)

var (
	// ErrUnsupportedType is returned for files that are neither text, PDF nor DOCX.
	ErrUnsupportedType = errors.New("please upload a text file (.txt), PDF or DOCX file")
	// ErrEmptyDocument is returned when a supported document yields no text.
	ErrEmptyDocument = errors.New("could not read file")
	// ErrReadFailed wraps I/O and parsing failures.
	ErrReadFailed = errors.New("error processing file, please try again")
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Kind is the detected document format.
type Kind string

const (
	KindText Kind = "text"
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

// Document is an extracted resume.
type Document struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	Text string `json:"-"`
}

// DetectKind classifies a file by MIME type and name. Anything with a text MIME type or a
// .txt name is read as text, so a text/plain upload named cv.pdf stays text.
func DetectKind(name, mimeType string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mimeType = strings.ToLower(mimeType)

	switch {
	case strings.Contains(mimeType, "text") || ext == ".txt":
		return KindText, nil
	case ext == ".pdf" || strings.Contains(mimeType, "application/pdf"):
		return KindPDF, nil
	case ext == ".docx" || strings.Contains(mimeType, docxMIME):
		return KindDOCX, nil
	default:
		return "", ErrUnsupportedType
	}
}

// Extract returns the text of the document. Text files are returned verbatim.
func Extract(name, mimeType string, data []byte) (*Document, error) {
	kind, err := DetectKind(name, mimeType)
	if err != nil {
		metrics.ResumeExtractions.WithLabelValues("unknown", metrics.OutcomeInvalidInput).Inc()
		return nil, err
	}

	doc, err := extract(kind, name, data)
	switch {
	case err == nil:
		metrics.ResumeExtractions.WithLabelValues(string(kind), metrics.OutcomeOK).Inc()
	case errors.Is(err, ErrEmptyDocument):
		metrics.ResumeExtractions.WithLabelValues(string(kind), metrics.OutcomeInvalidInput).Inc()
	default:
		metrics.ResumeExtractions.WithLabelValues(string(kind), metrics.OutcomeError).Inc()
	}
	return doc, err
}

func extract(kind Kind, name string, data []byte) (*Document, error) {
	var (
		text string
		err  error
	)
	switch kind {
	case KindText:
		text = string(data)
	case KindPDF:
		text, err = extractPDF(data)
	case KindDOCX:
		text, err = extractDOCX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: extract %s %q: %w", ErrReadFailed, kind, name, err)
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	return &Document{Name: name, Kind: kind, Text: text}, nil
}
