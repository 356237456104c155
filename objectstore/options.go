// Package objectstore provides functional options for configuring the object store client.
package objectstore

import (
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	region         string
	endpoint       string
	forcePathStyle bool
	maxRetries     int
	timeout        time.Duration
	awsConfig      *aws.Config
	logger         *slog.Logger
}

func defaultOptions() *options {
	return &options{
		maxRetries: 3,
	}
}

func applyOptions(o *options, opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithRegion sets the AWS region.
// If not specified, uses the region from the credential chain, falling back to us-east-1.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services such as MinIO or LocalStack.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// Most S3-compatible services need this together with WithEndpoint.
func WithForcePathStyle(forcePathStyle bool) Option {
	return func(o *options) {
		o.forcePathStyle = forcePathStyle
	}
}

// WithMaxRetries sets the maximum number of attempts the SDK makes per request.
// Default is 3.
func WithMaxRetries(maxRetries int) Option {
	return func(o *options) {
		o.maxRetries = maxRetries
	}
}

// WithTimeout sets an HTTP timeout for every request, including reading the
// object body. Default is no timeout; prefer a context deadline per read.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithAWSConfig provides a ready AWS configuration instead of loading the default chain.
func WithAWSConfig(cfg *aws.Config) Option {
	return func(o *options) {
		o.awsConfig = cfg
	}
}

// WithLogger configures the client and the handles it creates with a structured logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
