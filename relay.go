package browserfile

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	bferrors "github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/internal/pool"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/internal/validation"
)

// Relay is a one-shot Source fed chunk by chunk, e.g. by the connection that
// carries a browser upload. The producer calls Write for every chunk and then
// Close (or CloseWithError); the consumer opens the relay exactly once.
//
// Write and CloseWithError are meant for a single producer goroutine: a Write
// blocked on a full queue holds off CloseWithError until the consumer reads or
// releases the stream.
type Relay struct {
	chunks chan []byte

	// mu serializes the producer so every send happens before eof is closed
	mu      sync.Mutex
	eof     chan struct{}
	eofOnce sync.Once
	err     error

	done     chan struct{}
	doneOnce sync.Once

	opened atomic.Bool
}

var _ Source = (*Relay)(nil)

// NewRelay creates an empty relay.
func NewRelay(opts ...filetypes.RelayOption) (*Relay, error) {
	cfg := defaultRelayConfig()
	applyRelayOptions(cfg, opts)
	if err := validation.ValidateRelayCapacity(cfg.Capacity); err != nil {
		return nil, bferrors.NewError("newRelay", err)
	}

	return &Relay{
		chunks: make(chan []byte, cfg.Capacity),
		eof:    make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Write queues a copy of chunk for the consumer, so the caller may reuse chunk
// once Write returns. It blocks while the queue is full.
//
// Errors:
//   - ErrUnavailable: the consumer released the stream
//   - ErrStreamClosed: the producer side was already closed
//   - ErrCancelled: ctx was done before the chunk was queued
//   - ErrInvalidInput: ctx is nil
func (r *Relay) Write(ctx context.Context, chunk []byte) error {
	const op = "relayWrite"

	if ctx == nil {
		return bferrors.NewError(op, bferrors.ErrInvalidInput).
			WithMessage("context cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case <-r.eof:
		return bferrors.NewError(op, bferrors.ErrStreamClosed).WithMessage("write after close")
	default:
	}
	select {
	case <-r.done:
		return bferrors.NewError(op, bferrors.ErrUnavailable).WithMessage("consumer released the stream")
	default:
	}
	if len(chunk) == 0 {
		return nil
	}

	buf := append(pool.GetBuffer(len(chunk)), chunk...)
	select {
	case r.chunks <- buf:
		return nil
	case <-r.done:
		pool.PutBuffer(buf)
		return bferrors.NewError(op, bferrors.ErrUnavailable).WithMessage("consumer released the stream")
	case <-ctx.Done():
		pool.PutBuffer(buf)
		return bferrors.Cancelled(op, "", context.Cause(ctx))
	}
}

// CloseWithError ends the producer side. Queued chunks are still delivered;
// after them the consumer sees err, or io.EOF when err is nil. Only the first
// call has an effect.
func (r *Relay) CloseWithError(err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.eofOnce.Do(func() {
		r.err = err
		close(r.eof)
	})
	return nil
}

// Close ends the producer side cleanly.
func (r *Relay) Close() error {
	return r.CloseWithError(nil)
}

// Open hands out the consumer stream. It succeeds once; later and concurrent
// calls fail with ErrAlreadyConsumed.
func (r *Relay) Open(context.Context) (io.ReadCloser, error) {
	if !r.opened.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("relay: %w", bferrors.ErrAlreadyConsumed)
	}
	return &relayReader{relay: r}, nil
}

// release marks the consumer gone and returns queued chunks to the pool.
func (r *Relay) release() {
	r.doneOnce.Do(func() {
		close(r.done)
	})
	for {
		select {
		case buf := <-r.chunks:
			pool.PutBuffer(buf)
		default:
			return
		}
	}
}

// relayReader is the consumer side of a Relay. Cancellation is handled by the
// stream guard, which closes the reader to unblock a pending Read.
type relayReader struct {
	relay *Relay

	// mu guards the chunk being drained; it is never held while waiting for a chunk
	mu     sync.Mutex
	cur    []byte
	off    int
	closed bool
}

func (rr *relayReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	rr.mu.Lock()
	defer rr.mu.Unlock()
	if rr.closed {
		return 0, io.ErrClosedPipe
	}
	if rr.cur == nil {
		rr.mu.Unlock()
		buf, err := rr.next()
		rr.mu.Lock()
		if err != nil {
			return 0, err
		}
		if rr.closed {
			pool.PutBuffer(buf)
			return 0, io.ErrClosedPipe
		}
		rr.cur, rr.off = buf, 0
	}

	n := copy(p, rr.cur[rr.off:])
	rr.off += n
	if rr.off == len(rr.cur) {
		pool.PutBuffer(rr.cur)
		rr.cur = nil
	}
	return n, nil
}

func (rr *relayReader) next() ([]byte, error) {
	r := rr.relay
	select {
	case buf := <-r.chunks:
		return buf, nil
	case <-r.done:
		return nil, io.ErrClosedPipe
	case <-r.eof:
		// Every send happened before eof was closed, so a non-blocking drain
		// sees whatever is still queued.
		select {
		case buf := <-r.chunks:
			return buf, nil
		default:
		}
		if r.err != nil {
			return nil, fmt.Errorf("relay: producer failed: %w", r.err)
		}
		return nil, io.EOF
	}
}

// Close releases the relay and returns a partly drained chunk to the pool.
func (rr *relayReader) Close() error {
	rr.relay.release()

	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.closed = true
	if rr.cur != nil {
		pool.PutBuffer(rr.cur)
		rr.cur = nil
	}
	return nil
}
