// Package objectstore serves browser files that were uploaded to S3 or an
// S3-compatible store.
//
// A browser upload is often written to a bucket before the server processes
// it. The handles created here read the object with GetObject on every
// OpenReadStream, so they are re-readable while the object exists, and they
// carry the same size ceiling and cancellation guarantees as any other
// browserfile handle.
package objectstore

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	bferrors "github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/internal/s3api"
)

// defaultRegion is used when neither the options nor the credential chain name a region.
const defaultRegion = "us-east-1"

// Client creates file handles backed by S3 objects.
// It is safe for concurrent use.
type Client struct {
	// api is the underlying S3 client (thread-safe)
	api s3api.S3API

	// logger is handed to every handle the client creates
	logger *slog.Logger
}

// New creates a client using the default AWS credential chain.
//
// Example:
//
//	client, err := objectstore.New(ctx,
//	    objectstore.WithEndpoint("http://localhost:9000"),
//	    objectstore.WithForcePathStyle(true),
//	)
func New(ctx context.Context, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, bferrors.NewError("newObjectStore", bferrors.ErrInvalidInput).
			WithMessage("context cannot be nil")
	}

	o := defaultOptions()
	applyOptions(o, opts)

	var cfg aws.Config
	if o.awsConfig != nil {
		cfg = *o.awsConfig
	} else {
		var err error
		cfg, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, bferrors.NewError("newObjectStore", err).WithMessage("failed to load AWS config")
		}
	}

	if o.region != "" {
		cfg.Region = o.region
	} else if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	if o.maxRetries > 0 {
		cfg.RetryMaxAttempts = o.maxRetries
	}

	var s3Opts []func(*s3.Options)
	if o.forcePathStyle {
		s3Opts = append(s3Opts, func(so *s3.Options) {
			so.UsePathStyle = true
		})
	}
	if o.endpoint != "" {
		s3Opts = append(s3Opts, func(so *s3.Options) {
			so.BaseEndpoint = aws.String(o.endpoint)
		})
	}
	if o.timeout > 0 {
		httpClient := &http.Client{Timeout: o.timeout}
		s3Opts = append(s3Opts, func(so *s3.Options) {
			so.HTTPClient = httpClient
		})
	}

	return &Client{
		api:    s3.NewFromConfig(cfg, s3Opts...),
		logger: o.logger,
	}, nil
}

// NewWithClient creates a client over an existing S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(api s3api.S3API, opts ...Option) *Client {
	o := defaultOptions()
	applyOptions(o, opts)

	return &Client{
		api:    api,
		logger: o.logger,
	}
}
