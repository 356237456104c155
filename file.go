package browserfile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	bferrors "github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/internal/stream"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/internal/validation"
)

// DefaultMaxAllowedSize is the read ceiling applied when no WithMaxAllowedSize option is given.
const DefaultMaxAllowedSize = filetypes.DefaultMaxAllowedSize

// File represents a file selected in a browser file input.
//
// Metadata is provided by the client and is untrusted. The accessors are pure:
// they never perform I/O or touch the byte source.
type File interface {
	// Name returns the file name as reported by the browser.
	Name() string

	// LastModified returns the last modified time as reported by the browser.
	LastModified() time.Time

	// Size returns the size in bytes as reported by the browser.
	Size() int64

	// ContentType returns the MIME type as reported by the browser.
	ContentType() string

	// OpenReadStream opens the file's bytes for reading.
	//
	// It fails before touching the source if the declared Size is larger than
	// the maximum allowed size (500 KiB unless WithMaxAllowedSize says
	// otherwise), and the returned stream fails once the source delivers more
	// than that maximum. Cancelling ctx abandons the read. The caller must
	// Close the stream.
	OpenReadStream(ctx context.Context, opts ...filetypes.ReadOption) (io.ReadCloser, error)
}

// Handle is the File implementation shared by every source.
// It is immutable and safe for concurrent use; whether concurrent opens succeed
// is decided by the Source.
type Handle struct {
	meta   filetypes.Metadata
	src    Source
	logger *slog.Logger
}

var _ File = (*Handle)(nil)

// New creates a handle over src described by the client-reported meta.
//
// Example:
//
//	f, err := browserfile.New(meta, browserfile.SourceFunc(openUpload),
//	    browserfile.WithLogger(slog.Default()),
//	)
func New(meta filetypes.Metadata, src Source, opts ...filetypes.Option) (*Handle, error) {
	if src == nil {
		return nil, bferrors.NewError("new", bferrors.ErrInvalidInput).
			WithName(meta.Name).
			WithMessage("source cannot be nil")
	}
	if err := validation.ValidateMetadata(meta); err != nil {
		return nil, err
	}

	cfg := &filetypes.FileConfig{}
	applyOptions(cfg, opts)

	return &Handle{
		meta:   meta,
		src:    src,
		logger: cfg.Logger,
	}, nil
}

// Name returns the file name as reported by the browser.
func (h *Handle) Name() string {
	return h.meta.Name
}

// LastModified returns the last modified time as reported by the browser.
func (h *Handle) LastModified() time.Time {
	return h.meta.LastModified
}

// Size returns the size in bytes as reported by the browser.
func (h *Handle) Size() int64 {
	return h.meta.Size
}

// ContentType returns the MIME type as reported by the browser.
func (h *Handle) ContentType() string {
	return h.meta.ContentType
}

// Metadata returns a copy of the client-reported metadata.
func (h *Handle) Metadata() filetypes.Metadata {
	return h.meta
}

// OpenReadStream opens the file's bytes for reading.
//
// Errors:
//   - ErrInvalidInput: ctx is nil or the maximum allowed size is not positive
//   - ErrCancelled: ctx was done before the source was opened
//   - ErrSizeExceeded: the declared size is above the maximum allowed size
//   - ErrAlreadyConsumed: a one-shot source was already opened
//   - ErrUnavailable: the source no longer exists
//   - ErrTransport: the source failed to open
func (h *Handle) OpenReadStream(ctx context.Context, opts ...filetypes.ReadOption) (io.ReadCloser, error) {
	const op = "openReadStream"

	if ctx == nil {
		return nil, bferrors.NewError(op, bferrors.ErrInvalidInput).
			WithName(h.meta.Name).
			WithMessage("context cannot be nil")
	}

	cfg := defaultReadConfig()
	applyReadOptions(cfg, opts)
	if err := validation.ValidateReadConfig(cfg); err != nil {
		return nil, bferrors.NewError(op, err).WithName(h.meta.Name)
	}

	if err := ctx.Err(); err != nil {
		return nil, bferrors.Cancelled(op, h.meta.Name, context.Cause(ctx))
	}

	if h.meta.Size > cfg.MaxAllowedSize {
		if h.logger != nil {
			h.logger.WarnContext(ctx, "file rejected by declared size",
				"file_name", h.meta.Name,
				"declared_size", h.meta.Size,
				"max_allowed_size", cfg.MaxAllowedSize)
		}
		return nil, bferrors.SizeExceeded(op, h.meta.Name, h.meta.Size, cfg.MaxAllowedSize, true)
	}

	rc, err := h.src.Open(ctx)
	if err == nil && rc == nil {
		err = errors.New("source returned a nil stream")
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, bferrors.Cancelled(op, h.meta.Name, context.Cause(ctx))
		}
		if h.logger != nil {
			h.logger.ErrorContext(ctx, "failed to open file stream",
				"file_name", h.meta.Name,
				"error", err)
		}
		return nil, bferrors.Transport(op, h.meta.Name, err)
	}

	if h.logger != nil {
		h.logger.DebugContext(ctx, "file stream opened",
			"file_name", h.meta.Name,
			"declared_size", h.meta.Size,
			"max_allowed_size", cfg.MaxAllowedSize)
	}

	return stream.New(ctx, rc, stream.Config{
		Name:            h.meta.Name,
		DeclaredSize:    h.meta.Size,
		MaxAllowedSize:  cfg.MaxAllowedSize,
		ProgressTracker: cfg.ProgressTracker,
		Logger:          h.logger,
	}), nil
}
