// Package storage opens import files from the local disk or S3 compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ceramica/erp_backend/internal/platform/config"
)

// ObjectReader fetches a single object.
type ObjectReader interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// S3Reader implements ObjectReader using AWS S3 SDK v2. It works against AWS S3,
// MinIO and other S3 compatible servers.
type S3Reader struct {
	client *s3.Client
}

var _ ObjectReader = (*S3Reader)(nil)

// NewS3Reader creates an S3 client from configuration. Static credentials are used when
// an access key is configured, otherwise the default AWS credential chain applies.
func NewS3Reader(ctx context.Context, cfg config.StorageConfig) (*S3Reader, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &S3Reader{client: client}, nil
}

func (r *S3Reader) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// ParseS3URI splits "s3://bucket/path/to/key" into bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri needs a bucket and a key: %q", uri)
	}
	return bucket, key, nil
}

// ErrNoObjectReader is returned when an s3:// source is opened without S3 configured.
var ErrNoObjectReader = errors.New("s3 source given but object storage is not configured")

// Open returns a reader for a local path or an s3:// URI.
func Open(ctx context.Context, source string, objects ObjectReader) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "s3://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", source, err)
		}
		return f, nil
	}
	bucket, key, err := ParseS3URI(source)
	if err != nil {
		return nil, err
	}
	if objects == nil {
		return nil, ErrNoObjectReader
	}
	return objects.GetObject(ctx, bucket, key)
}
