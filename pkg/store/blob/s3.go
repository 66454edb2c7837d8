package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/variation-atlas/pkg/models/domain"
)

const DefaultRegion = "us-east-1"

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Store struct {
	client s3API
	bucket string
}

// NewS3Store loads the default AWS config chain, optionally pinned to a shared config
// profile. A custom endpoint switches to path style addressing for MinIO and LocalStack.
func NewS3Store(ctx context.Context, profile domain.StorageProfile) (Store, error) {
	if profile.Bucket == "" {
		return nil, fmt.Errorf("bucket not set in storage profile %s", profile.Name)
	}

	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(DefaultRegion)}
	if profile.Region != "" {
		opts = append(opts, config.WithRegion(profile.Region))
	}
	if profile.AWSProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile.AWSProfile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if profile.Endpoint != "" {
			o.BaseEndpoint = aws.String(profile.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, profile.Bucket), nil
}

func newS3Store(client s3API, bucket string) *s3Store {
	return &s3Store{client: client, bucket: bucket}
}

func (s *s3Store) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

func (s *s3Store) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
