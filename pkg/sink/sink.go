package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/minispec/visual/internal/logger"
	"golang.org/x/term"
)

const (
	// Stdout is the target naming the standard output.
	Stdout = "-"

	s3Scheme = "s3://"

	contentTypeJSON = "application/json"
	contentTypeGzip = "application/gzip"
)

// Sink receives one encoded graph.
type Sink interface {
	Write(ctx context.Context, data []byte) error
	String() string
}

// Open returns the sink matching target: the standard output for "" or "-", an S3 object for
// "s3://bucket/key", a file otherwise.
func Open(ctx context.Context, target string, stdout io.Writer) (Sink, error) {
	switch {
	case target == "" || target == Stdout:
		return &WriterSink{Writer: stdout}, nil
	case IsS3URL(target):
		bucket, key, err := ParseS3URL(target)
		if err != nil {
			return nil, err
		}

		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot load AWS config: %w", err)
		}

		return &ObjectSink{Uploader: NewS3Uploader(awsCfg, bucket), Key: key, ContentType: contentTypeFor(key)}, nil
	default:
		return &FileSink{Path: target}, nil
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	switch v := w.(type) {
	case *os.File:
		return term.IsTerminal(int(v.Fd()))
	default:
		return false
	}
}

// WriterSink writes to an io.Writer, usually the standard output.
type WriterSink struct {
	Writer io.Writer
}

func (s *WriterSink) Write(_ context.Context, data []byte) error {
	if _, err := s.Writer.Write(data); err != nil {
		return fmt.Errorf("cannot write layout: %w", err)
	}

	return nil
}

func (s *WriterSink) String() string {
	return "standard output"
}

// FileSink writes to a local file, creating its parent directories.
type FileSink struct {
	Path string
}

func (s *FileSink) Write(_ context.Context, data []byte) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("cannot create output directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(s.Path, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("cannot write layout to %s: %w", s.Path, err)
	}

	logger.Debugf("Layout written to %s", s.Path)

	return nil
}

func (s *FileSink) String() string {
	return s.Path
}

// ObjectSink uploads to an S3 object.
type ObjectSink struct {
	Uploader *S3Uploader
	Key      string
	// ContentType defaults to application/json.
	ContentType string
}

func (s *ObjectSink) Write(ctx context.Context, data []byte) error {
	contentType := s.ContentType
	if contentType == "" {
		contentType = contentTypeJSON
	}

	return s.Uploader.Upload(ctx, s.Key, data, contentType)
}

func (s *ObjectSink) String() string {
	return s3Scheme + s.Uploader.bucket + "/" + s.Key
}

// IsS3URL reports whether target names an S3 object.
func IsS3URL(target string) bool {
	return strings.HasPrefix(target, s3Scheme)
}

func contentTypeFor(key string) string {
	if strings.HasSuffix(key, ".tar.gz") || strings.HasSuffix(key, ".tgz") {
		return contentTypeGzip
	}

	return contentTypeJSON
}

// ParseS3URL splits "s3://bucket/key" into its bucket and key.
func ParseS3URL(raw string) (string, string, error) {
	bucket, key, _ := strings.Cut(strings.TrimPrefix(raw, s3Scheme), "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid S3 URL %q: bucket name is required for S3 upload", raw)
	}

	if key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("invalid S3 URL %q: object key is required for S3 upload", raw)
	}

	return bucket, key, nil
}
