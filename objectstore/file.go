package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/input-output-hk/catalyst-forge-libs/browserfile"
	bferrors "github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/internal/validation"
)

// objectSource opens an S3 object. Each Open issues its own GetObject.
type objectSource struct {
	client *Client
	bucket string
	key    string
}

func (s objectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: get %s/%s: %w", s.bucket, s.key, convertAWSError(err))
	}
	if out.Body == nil {
		return nil, fmt.Errorf("s3: get %s/%s: empty response body", s.bucket, s.key)
	}
	return out.Body, nil
}

// File creates a handle over the object at bucket/key described by the
// client-reported meta. Nothing is fetched until OpenReadStream.
func (c *Client) File(bucket, key string, meta filetypes.Metadata, opts ...filetypes.Option) (*browserfile.Handle, error) {
	if err := validateLocation("file", bucket, key); err != nil {
		return nil, err
	}
	return browserfile.New(meta, objectSource{client: c, bucket: bucket, key: key}, c.handleOptions(opts)...)
}

// Stat creates a handle whose metadata comes from the object itself.
// The name is the filename from the Content-Disposition header when present,
// otherwise the last element of the key.
//
// Errors:
//   - ErrInvalidInput: bucket or key is malformed
//   - ErrCancelled: ctx was done
//   - ErrUnavailable: the object does not exist
//   - ErrTransport: the store could not be reached
func (c *Client) Stat(ctx context.Context, bucket, key string, opts ...filetypes.Option) (*browserfile.Handle, error) {
	const op = "stat"

	if ctx == nil {
		return nil, bferrors.NewError(op, bferrors.ErrInvalidInput).
			WithName(key).
			WithMessage("context cannot be nil")
	}
	if err := validateLocation(op, bucket, key); err != nil {
		return nil, err
	}

	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, bferrors.Cancelled(op, key, context.Cause(ctx))
		}
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to stat object",
				"bucket", bucket,
				"key", key,
				"error", err)
		}
		return nil, bferrors.Transport(op, key, fmt.Errorf("s3: head %s/%s: %w", bucket, key, convertAWSError(err)))
	}

	meta := filetypes.Metadata{
		Name:         objectName(key, aws.ToString(out.ContentDisposition)),
		LastModified: aws.ToTime(out.LastModified),
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
	}
	return browserfile.New(meta, objectSource{client: c, bucket: bucket, key: key}, c.handleOptions(opts)...)
}

// handleOptions puts the client logger first so per-handle options override it.
func (c *Client) handleOptions(opts []filetypes.Option) []filetypes.Option {
	if c.logger == nil {
		return opts
	}
	return append([]filetypes.Option{browserfile.WithLogger(c.logger)}, opts...)
}

func validateLocation(op, bucket, key string) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return bferrors.NewError(op, err).WithName(key)
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return bferrors.NewError(op, err).WithName(key)
	}
	return nil
}

// objectName picks the file name reported for an object.
func objectName(key, contentDisposition string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return path.Base(key)
}

// convertAWSError maps missing objects to ErrUnavailable and leaves every
// other error to be reported as a transport failure.
func convertAWSError(err error) error {
	if err == nil {
		return nil
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %w", bferrors.ErrUnavailable, err)
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", bferrors.ErrUnavailable, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %w", bferrors.ErrUnavailable, err)
		}
	}

	return err
}
