// Package stream implements the guarded reader returned by OpenReadStream.
//
// A Guard sits between the caller and the byte source. It enforces the read
// ceiling on the bytes actually delivered, observes cancellation between
// reads, and releases the source exactly once on every exit path.
package stream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	bferrors "github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
)

const opRead = "read"

// Release reasons reported in logs.
const (
	ReasonEOF       = "eof"
	ReasonClosed    = "closed"
	ReasonOverflow  = "size_exceeded"
	ReasonCancelled = "cancelled"
	ReasonTransport = "transport_failure"
)

// Config describes the file being streamed and the limits applied to it.
type Config struct {
	// Name is the client-reported file name, used for errors and logs
	Name string

	// DeclaredSize is the client-reported size, reported as the progress total
	DeclaredSize int64

	// MaxAllowedSize is the most bytes the guard delivers
	MaxAllowedSize int64

	// ProgressTracker receives read progress (optional)
	ProgressTracker filetypes.ProgressTracker

	// Logger receives release events (optional)
	Logger *slog.Logger
}

// Guard wraps a source stream. It is single-consumer: Read must not be called
// concurrently, but Close may be called from any goroutine to abort a blocked read.
type Guard struct {
	ctx context.Context
	src io.ReadCloser
	cfg Config

	// read is updated by the reading goroutine and observed by release
	read atomic.Int64

	// terminal is the error every later Read returns; owned by the reading goroutine
	terminal error

	closed      atomic.Bool
	releaseOnce sync.Once
	releaseErr  error

	// stopCancel unregisters the cancellation hook; never called from the hook itself
	stopCancel func() bool
}

// New wraps src. Cancellation of ctx closes src promptly, even while a Read is blocked.
func New(ctx context.Context, src io.ReadCloser, cfg Config) *Guard {
	g := &Guard{
		ctx: ctx,
		src: src,
		cfg: cfg,
	}
	g.stopCancel = context.AfterFunc(ctx, func() {
		g.release(ReasonCancelled)
	})
	return g
}

// Read implements io.Reader.
func (g *Guard) Read(p []byte) (int, error) {
	if g.terminal != nil {
		return 0, g.terminal
	}
	if g.closed.Load() {
		return 0, bferrors.NewError(opRead, bferrors.ErrStreamClosed).WithName(g.cfg.Name)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := g.ctx.Err(); err != nil {
		return 0, g.fail(bferrors.Cancelled(opRead, g.cfg.Name, context.Cause(g.ctx)), ReasonCancelled)
	}

	remaining := g.cfg.MaxAllowedSize - g.read.Load()
	if remaining <= 0 {
		return 0, g.probe()
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := g.src.Read(p)
	if n > 0 {
		total := g.read.Add(int64(n))
		if g.cfg.ProgressTracker != nil {
			g.cfg.ProgressTracker.Update(total, g.cfg.DeclaredSize)
		}
	}

	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF):
		g.finish()
		return n, io.EOF
	default:
		return n, g.sourceFailure(err)
	}
}

// probe runs once the ceiling has been reached: any further byte from the
// source is an overflow, EOF is a clean finish.
func (g *Guard) probe() error {
	var one [1]byte
	for {
		if err := g.ctx.Err(); err != nil {
			return g.fail(bferrors.Cancelled(opRead, g.cfg.Name, context.Cause(g.ctx)), ReasonCancelled)
		}

		n, err := g.src.Read(one[:])
		if n > 0 {
			if g.cfg.Logger != nil {
				g.cfg.Logger.WarnContext(g.ctx, "stream exceeded maximum allowed size",
					"file_name", g.cfg.Name,
					"declared_size", g.cfg.DeclaredSize,
					"max_allowed_size", g.cfg.MaxAllowedSize)
			}
			return g.fail(bferrors.SizeExceeded(opRead, g.cfg.Name, g.read.Load()+1, g.cfg.MaxAllowedSize, false), ReasonOverflow)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			g.finish()
			return io.EOF
		}
		return g.sourceFailure(err)
	}
}

// sourceFailure classifies an error returned by the source.
func (g *Guard) sourceFailure(err error) error {
	if g.ctx.Err() != nil {
		return g.fail(bferrors.Cancelled(opRead, g.cfg.Name, context.Cause(g.ctx)), ReasonCancelled)
	}
	if g.closed.Load() {
		// Close raced with a blocked read; report the close, not the side effect.
		return g.fail(bferrors.NewError(opRead, bferrors.ErrStreamClosed).WithName(g.cfg.Name), ReasonClosed)
	}

	if g.cfg.Logger != nil {
		g.cfg.Logger.ErrorContext(g.ctx, "file stream transport failure",
			"file_name", g.cfg.Name,
			"bytes_read", g.read.Load(),
			"error", err)
	}
	return g.fail(bferrors.Transport(opRead, g.cfg.Name, err), ReasonTransport)
}

func (g *Guard) finish() {
	g.terminal = io.EOF
	g.stopCancel()
	g.release(ReasonEOF)
	if g.cfg.ProgressTracker != nil {
		g.cfg.ProgressTracker.Complete()
	}
}

func (g *Guard) fail(err error, reason string) error {
	g.terminal = err
	g.stopCancel()
	g.release(reason)
	if g.cfg.ProgressTracker != nil {
		g.cfg.ProgressTracker.Error(err)
	}
	if reason == ReasonCancelled && g.cfg.Logger != nil {
		g.cfg.Logger.InfoContext(context.WithoutCancel(g.ctx), "file stream cancelled",
			"file_name", g.cfg.Name,
			"bytes_read", g.read.Load())
	}
	return err
}

// Close releases the source. It is idempotent and safe to call from any goroutine.
func (g *Guard) Close() error {
	g.closed.Store(true)
	g.stopCancel()
	g.release(ReasonClosed)
	return g.releaseErr
}

// BytesRead returns the number of bytes delivered so far.
func (g *Guard) BytesRead() int64 {
	return g.read.Load()
}

// release closes the source once. It runs on the cancellation goroutine too,
// so it must only touch atomics and the once-guarded fields.
func (g *Guard) release(reason string) {
	g.releaseOnce.Do(func() {
		if err := g.src.Close(); err != nil {
			g.releaseErr = bferrors.Transport("close", g.cfg.Name, err)
		}
		if g.cfg.Logger != nil {
			g.cfg.Logger.DebugContext(context.WithoutCancel(g.ctx), "file stream released",
				"file_name", g.cfg.Name,
				"bytes_read", g.read.Load(),
				"reason", reason)
		}
	})
}
