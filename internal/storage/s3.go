// Package storage archives raw source documents in S3-compatible object
// storage so a source can be re-chunked and re-embedded later without
// asking the uploader for the text again.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveConfig holds configuration for the document archive.
type ArchiveConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// Archive stores raw document text in an S3-compatible bucket, one
// object per source keyed by source ID.
type Archive struct {
	client *s3.Client
	bucket string
}

// NewArchive creates an Archive against the configured bucket. A custom
// endpoint selects S3-compatible storage such as MinIO or RustFS.
func NewArchive(ctx context.Context, cfg ArchiveConfig) (*Archive, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Archive{client: client, bucket: cfg.Bucket}, nil
}

func documentKey(sourceID string) string {
	return "documents/" + sourceID + ".txt"
}

// PutDocument archives the raw text of a source document.
func (a *Archive) PutDocument(ctx context.Context, sourceID, text string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(documentKey(sourceID)),
		Body:        bytes.NewReader([]byte(text)),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive document %s: %w", sourceID, err)
	}
	return nil
}

// GetDocument fetches the archived raw text of a source document.
func (a *Archive) GetDocument(ctx context.Context, sourceID string) (string, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(documentKey(sourceID)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch archived document %s: %w", sourceID, err)
	}
	defer out.Body.Close()

	text, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read archived document %s: %w", sourceID, err)
	}
	return string(text), nil
}

// DeleteDocument removes the archived copy of a source document.
func (a *Archive) DeleteDocument(ctx context.Context, sourceID string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(documentKey(sourceID)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete archived document %s: %w", sourceID, err)
	}
	return nil
}

// EnsureBucket creates the archive bucket if it doesn't exist.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}
