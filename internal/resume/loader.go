package resume

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const s3Scheme = "s3"

// ObjectGetter fetches an object from a bucket and reports its content type.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, string, error)
}

// Loader reads resumes from local files or s3:// URIs.
type Loader struct {
	objects ObjectGetter
}

// NewLoader returns a loader. objects may be nil when object storage is not configured.
func NewLoader(objects ObjectGetter) *Loader {
	return &Loader{objects: objects}
}

// Load reads and extracts the resume found at source.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("resume source is required")
	}

	if strings.HasPrefix(source, s3Scheme+"://") {
		return l.loadObject(ctx, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %w", ErrReadFailed, source, err)
	}

	name := filepath.Base(source)
	return Extract(name, mime.TypeByExtension(filepath.Ext(name)), data)
}

func (l *Loader) loadObject(ctx context.Context, source string) (*Document, error) {
	if l.objects == nil {
		return nil, fmt.Errorf("object storage is not configured for %q", source)
	}

	bucket, key, err := ParseObjectURI(source)
	if err != nil {
		return nil, err
	}

	data, contentType, err := l.objects.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%w: get object %q: %w", ErrReadFailed, source, err)
	}

	return Extract(path.Base(key), contentType, data)
}

// ParseObjectURI splits s3://bucket/key into its parts.
func ParseObjectURI(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse object uri: %w", err)
	}

	if u.Scheme != s3Scheme {
		return "", "", fmt.Errorf("unsupported object uri scheme %q", u.Scheme)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("object uri %q must look like s3://bucket/key", raw)
	}

	return u.Host, key, nil
}
