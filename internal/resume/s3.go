package resume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultMaxObjectBytes caps resume objects unless configured otherwise.
const DefaultMaxObjectBytes = 10 << 20

// S3Config describes an S3 compatible endpoint. Empty Endpoint means AWS itself.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	// MaxBytes caps the object size read into memory. Zero means no cap.
	MaxBytes int64
}

// S3Objects reads resumes from S3 compatible storage.
type S3Objects struct {
	client   *s3.Client
	maxBytes int64
}

// NewS3Objects builds an S3 client from the default AWS chain, overridden by cfg.
func NewS3Objects(ctx context.Context, cfg S3Config) (*S3Objects, error) {
	opts := []func(*config.LoadOptions) error{}

	if region := strings.TrimSpace(cfg.Region); region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Objects{client: client, maxBytes: cfg.MaxBytes}, nil
}

func (s *S3Objects) GetObject(ctx context.Context, bucket, key string) ([]byte, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	var body io.Reader = out.Body
	if s.maxBytes > 0 {
		body = io.LimitReader(out.Body, s.maxBytes+1)
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, body); err != nil {
		return nil, "", fmt.Errorf("read object body: %w", err)
	}

	if s.maxBytes > 0 && int64(buf.Len()) > s.maxBytes {
		return nil, "", fmt.Errorf("object is larger than %d bytes", s.maxBytes)
	}

	return buf.Bytes(), aws.ToString(out.ContentType), nil
}
