package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentexpress/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageResolver turns a stored vehicle image reference into a URL the
// browser can load.
type ImageResolver interface {
	ResolveImage(ctx context.Context, ref string) (string, error)
}

// PassthroughImages returns references unchanged.
type PassthroughImages struct{}

func (PassthroughImages) ResolveImage(_ context.Context, ref string) (string, error) {
	return ref, nil
}

// S3Images presigns GET URLs for object keys in an S3-compatible bucket
// (AWS S3, Cloudflare R2, MinIO). Absolute URLs, data URIs and
// ./ or ../ relative paths are returned unchanged.
type S3Images struct {
	bucket  string
	ttl     time.Duration
	presign *s3.PresignClient
}

func NewS3Images(ctx context.Context, cfg config.ImageConfig) (*S3Images, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("image bucket not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Images{
		bucket:  cfg.Bucket,
		ttl:     ttl,
		presign: s3.NewPresignClient(client),
	}, nil
}

func (s *S3Images) ResolveImage(ctx context.Context, ref string) (string, error) {
	if isDirectURL(ref) {
		return ref, nil
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(ref, "/")),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", ref, err)
	}
	return req.URL, nil
}

func isDirectURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "data:") ||
		strings.HasPrefix(ref, "./") ||
		strings.HasPrefix(ref, "../")
}
