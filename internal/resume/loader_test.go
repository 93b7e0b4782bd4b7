package resume

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type stubObjects struct {
	data        []byte
	contentType string
	err         error
	bucket, key string
}

func (s *stubObjects) GetObject(_ context.Context, bucket, key string) ([]byte, string, error) {
	s.bucket, s.key = bucket, key
	if s.err != nil {
		return nil, "", s.err
	}
	return s.data, s.contentType, nil
}

func TestLoaderLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	if err := os.WriteFile(path, []byte("Go developer with experience"), 0o600); err != nil {
		t.Fatalf("write resume: %v", err)
	}

	doc, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "Go developer with experience" || doc.Name != "cv.txt" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	if !errors.Is(err, ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}
}

func TestLoaderObject(t *testing.T) {
	objects := &stubObjects{data: []byte("Python and SQL"), contentType: "text/plain"}

	doc, err := NewLoader(objects).Load(context.Background(), "s3://resumes/2024/jane.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if objects.bucket != "resumes" || objects.key != "2024/jane.txt" {
		t.Fatalf("unexpected object location: %s/%s", objects.bucket, objects.key)
	}
	if doc.Name != "jane.txt" || doc.Text != "Python and SQL" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestLoaderObjectErrors(t *testing.T) {
	if _, err := NewLoader(nil).Load(context.Background(), "s3://resumes/jane.txt"); err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected storage not configured error, got %v", err)
	}

	objects := &stubObjects{err: errors.New("access denied")}
	if _, err := NewLoader(objects).Load(context.Background(), "s3://resumes/jane.txt"); !errors.Is(err, ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}

	if _, err := NewLoader(nil).Load(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty source")
	}
}

func TestParseObjectURI(t *testing.T) {
	t.Parallel()

	bucket, key, err := ParseObjectURI("s3://bucket/a/b.pdf")
	if err != nil || bucket != "bucket" || key != "a/b.pdf" {
		t.Fatalf("unexpected result: %q %q %v", bucket, key, err)
	}

	for _, raw := range []string{"s3://bucket", "s3:///key", "http://bucket/key"} {
		if _, _, err := ParseObjectURI(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
