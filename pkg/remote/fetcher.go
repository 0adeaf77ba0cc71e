package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	japiccconfig "github.com/platinummonkey/japicc/pkg/config"
)

// Fetcher downloads archives from S3-compatible object storage.
type Fetcher struct {
	client *s3.Client
	bucket string
}

// NewFetcher builds a Fetcher from cfg. cfg.Bucket may be empty if the
// caller only intends to fetch fully-qualified s3://bucket/key URIs.
func NewFetcher(ctx context.Context, cfg japiccconfig.RemoteConfig) (*Fetcher, error) {
	var awsConfig aws.Config
	var err error

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsConfig, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey, cfg.SecretKey, "",
			)),
		)
	} else {
		awsConfig, err = config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return &Fetcher{client: client, bucket: cfg.Bucket}, nil
}

// ParseLocation splits an "s3://bucket/key" URI into its bucket and key. If
// location isn't an s3:// URI, bucket is empty and key is location
// unchanged — callers should fall back to the fetcher's default bucket.
func ParseLocation(location string) (bucket, key string) {
	if !strings.HasPrefix(location, "s3://") {
		return "", location
	}
	rest := strings.TrimPrefix(location, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// Download fetches location (either a bare key resolved against the
// fetcher's default bucket, or an s3://bucket/key URI) and writes it to
// destPath, creating parent directories as needed.
func (f *Fetcher) Download(ctx context.Context, location, destPath string) error {
	bucket, key := ParseLocation(location)
	if bucket == "" {
		bucket = f.bucket
	}
	if bucket == "" {
		return fmt.Errorf("no bucket configured for %q", location)
	}

	result, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch s3://%s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, result.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

// Exists reports whether location is present in object storage.
func (f *Fetcher) Exists(ctx context.Context, location string) (bool, error) {
	bucket, key := ParseLocation(location)
	if bucket == "" {
		bucket = f.bucket
	}
	_, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %q: %w", location, err)
	}
	return true, nil
}

// HealthCheck verifies connectivity to the configured default bucket.
func (f *Fetcher) HealthCheck(ctx context.Context) error {
	if f.bucket == "" {
		return nil
	}
	_, err := f.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(f.bucket)})
	if err != nil {
		return fmt.Errorf("s3 health check failed: %w", err)
	}
	return nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "NotFound") || strings.Contains(msg, "NoSuchKey")
}
