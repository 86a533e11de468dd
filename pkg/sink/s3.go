package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/minispec/visual/internal/logger"
)

// ObjectPutter is the part of the S3 client used to upload layouts.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader uploads layouts to any S3-compatible bucket.
type S3Uploader struct {
	s3     ObjectPutter
	bucket string
}

func NewS3Uploader(cfg aws.Config, bucket string) *S3Uploader {
	return &S3Uploader{
		s3:     s3.NewFromConfig(cfg),
		bucket: bucket,
	}
}

// NewS3UploaderWithClient creates an S3Uploader on top of an existing client.
func NewS3UploaderWithClient(client ObjectPutter, bucket string) *S3Uploader {
	return &S3Uploader{
		s3:     client,
		bucket: bucket,
	}
}

// Upload stores data as a private object at key.
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	size := int64(len(data))

	query := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		ACL:           types.ObjectCannedACLPrivate,
		Body:          bytes.NewReader(data),
		ContentLength: &size,
		ContentType:   aws.String(contentType),
	}

	if _, err := u.s3.PutObject(ctx, query); err != nil {
		return fmt.Errorf("can't send S3 PUT request: %w", err)
	}

	logger.Debugf("Layout uploaded to s3://%s/%s", u.bucket, key)

	return nil
}
