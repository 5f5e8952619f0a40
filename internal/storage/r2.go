package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Dev2197/recipe-snap/internal/apperr"
	appcfg "github.com/Dev2197/recipe-snap/internal/config"
)

// R2Store persists uploads in a Cloudflare R2 (S3-compatible) bucket.
// Path materializes objects into a local scratch directory so the analyzer
// scripts, which only read files, can consume them.
type R2Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	scratch string
}

// NewR2Store builds an R2-backed store from the loaded configuration.
func NewR2Store(ctx context.Context, cfg *appcfg.Config) (*R2Store, error) {
	if cfg.R2Endpoint == "" || cfg.R2AccessKey == "" || cfg.R2SecretKey == "" || cfg.R2Bucket == "" {
		return nil, errors.New("incomplete R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
		awsconfig.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					if service == s3.ServiceID {
						return aws.Endpoint{
							URL:           cfg.R2Endpoint,
							SigningRegion: "auto",
						}, nil
					}
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				},
			),
		),
	)
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp("", "recipe-snap-r2-")
	if err != nil {
		return nil, err
	}

	return &R2Store{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.R2Bucket,
		baseURL: cfg.R2PublicBaseURL,
		scratch: scratch,
	}, nil
}

func (s *R2Store) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to r2: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *R2Store) Path(ctx context.Context, key string) (string, error) {
	local := filepath.Join(s.scratch, key)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return "", apperr.NotFoundf("image file not found")
		}
		return "", fmt.Errorf("fetching %s from r2: %w", key, err)
	}
	defer obj.Body.Close()

	f, err := os.Create(local)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, obj.Body); err != nil {
		f.Close()
		os.Remove(local)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return local, nil
}
