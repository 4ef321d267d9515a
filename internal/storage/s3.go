package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// S3 talks to any S3-compatible service. Logical bucket names are
// lowercased since S3 rejects upper-case bucket names.
type S3 struct {
	client *minio.Client
	region string
}

// NewS3 connects and makes sure every given bucket exists.
func NewS3(ctx context.Context, opts S3Options, buckets ...string) (*S3, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("S3_ENDPOINT is required for the s3 storage driver")
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	s := &S3{client: client, region: opts.Region}
	for _, b := range buckets {
		if err := s.ensureBucket(ctx, b); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *S3) ensureBucket(ctx context.Context, bucket string) error {
	name := physicalBucket(bucket)
	exists, err := s.client.BucketExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", name, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	return nil
}

func (s *S3) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, physicalBucket(bucket), key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return s.PublicURL(bucket, key), nil
}

func (s *S3) Remove(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, physicalBucket(bucket), key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

func (s *S3) PublicURL(bucket, key string) string {
	return strings.TrimRight(s.client.EndpointURL().String(), "/") + "/" + physicalBucket(bucket) + "/" + key
}

func physicalBucket(bucket string) string {
	return strings.ToLower(bucket)
}
