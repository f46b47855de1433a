package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client wraps the S3 client for an object storage endpoint.
type Client struct {
	s3     *s3.Client
	region string
}

// Option adjusts the underlying s3.Options.
type Option func(*s3.Options)

// WithPathStyle addresses buckets as endpoint/bucket instead of
// bucket.endpoint.
func WithPathStyle() Option {
	return func(o *s3.Options) {
		o.UsePathStyle = true
	}
}

// NewClient creates a new S3 client for the object storage endpoint.
func NewClient(ctx context.Context, endpoint, region, accessKey, secretKey string, opts ...Option) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = false
		for _, opt := range opts {
			opt(o)
		}
	})

	return &Client{s3: client, region: region}, nil
}
