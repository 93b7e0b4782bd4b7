package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDetectKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		mimeType string
		expect   Kind
		err      error
	}{
		{name: "text mime", file: "resume", mimeType: "text/plain", expect: KindText},
		{name: "txt extension", file: "resume.txt", expect: KindText},
		{name: "text mime wins over pdf name", file: "resume.pdf", mimeType: "text/plain", expect: KindText},
		{name: "pdf extension", file: "resume.pdf", mimeType: "application/octet-stream", expect: KindPDF},
		{name: "upper case extension", file: "RESUME.PDF", expect: KindPDF},
		{name: "pdf mime", file: "upload", mimeType: "application/pdf", expect: KindPDF},
		{name: "docx extension", file: "resume.docx", expect: KindDOCX},
		{name: "docx mime", file: "upload", mimeType: docxMIME, expect: KindDOCX},
		{name: "image", file: "photo.png", mimeType: "image/png", err: ErrUnsupportedType},
		{name: "no hints", file: "resume", err: ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			kind, err := DetectKind(tt.file, tt.mimeType)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if kind != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, kind)
			}
		})
	}
}

func TestExtractTextIsVerbatim(t *testing.T) {
	t.Parallel()

	raw := "  Jane Doe\n\nExperience:  Go, SQL  \n"
	doc, err := Extract("resume.txt", "", []byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != raw {
		t.Fatalf("expected verbatim text, got %q", doc.Text)
	}
	if doc.Kind != KindText || doc.Name != "resume.txt" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestExtractEmptyText(t *testing.T) {
	t.Parallel()

	_, err := Extract("resume.txt", "text/plain", []byte(" \n\t"))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestExtractUnsupported(t *testing.T) {
	t.Parallel()

	_, err := Extract("resume.odt", "application/vnd.oasis.opendocument.text", []byte("data"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractPDF(t *testing.T) {
	t.Parallel()

	doc, err := Extract("cv.pdf", "application/pdf", buildPDF(t, "Experience with React and Docker"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Kind != KindPDF || doc.Name != "cv.pdf" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if got := strings.TrimSpace(doc.Text); got != "Experience with React and Docker" {
		t.Fatalf("unexpected text: %q", doc.Text)
	}
}

func TestExtractBrokenPDF(t *testing.T) {
	t.Parallel()

	_, err := Extract("resume.pdf", "application/pdf", []byte("definitely not a pdf"))
	if !errors.Is(err, ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}
}

func TestExtractDOCX(t *testing.T) {
	t.Parallel()

	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Experience with </w:t></w:r><w:r><w:t>Kubernetes</w:t></w:r></w:p>
  </w:body>
</w:document>`

	doc, err := Extract("resume.docx", "", buildDOCX(t, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Kind != KindDOCX {
		t.Fatalf("expected docx kind, got %s", doc.Kind)
	}
	if doc.Text != "Jane Doe\nExperience with Kubernetes" {
		t.Fatalf("unexpected text: %q", doc.Text)
	}
}

func TestExtractBrokenDOCX(t *testing.T) {
	t.Parallel()

	_, err := Extract("resume.docx", "", []byte("not a zip"))
	if !errors.Is(err, ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}
}

func TestDocumentXMLText(t *testing.T) {
	t.Parallel()

	content := `<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t><w:br/><w:t>C</w:t></w:r></w:p><w:p><w:r><w:instrText>ignored</w:instrText></w:r></w:p></w:body></w:document>`
	text, err := documentXMLText(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "A\tB\nC" {
		t.Fatalf("unexpected text: %q", text)
	}

	if _, err := documentXMLText("<w:p><w:t>unclosed"); err == nil || !strings.Contains(err.Error(), "parse document xml") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}

	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	return buf.Bytes()
}

// buildPDF writes a single page PDF showing text in Helvetica.
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()

	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, object := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, object)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}
