package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// ErrInjected is the failure TrackingReadCloser returns when FailAfter is reached.
var ErrInjected = errors.New("testutil: injected transport failure")

// TrackingReadCloser is an io.ReadCloser over fixed data that records how it was used.
type TrackingReadCloser struct {
	r *bytes.Reader

	// ChunkSize caps the bytes returned per Read (0 means no cap)
	ChunkSize int

	// FailAfter makes Read fail with Err once this many bytes were returned (0 disables)
	FailAfter int64

	// Err is the failure returned when FailAfter is reached; defaults to ErrInjected
	Err error

	// Block makes every Read wait until Close is called
	Block bool

	read    atomic.Int64
	closes  atomic.Int32
	closeCh chan struct{}
	once    sync.Once
}

// NewTrackingReadCloser creates a TrackingReadCloser over data.
func NewTrackingReadCloser(data []byte) *TrackingReadCloser {
	return &TrackingReadCloser{
		r:       bytes.NewReader(data),
		closeCh: make(chan struct{}),
	}
}

// Read implements io.Reader.
func (t *TrackingReadCloser) Read(p []byte) (int, error) {
	if t.Block {
		<-t.closeCh
		return 0, io.ErrClosedPipe
	}
	if t.closes.Load() > 0 {
		return 0, io.ErrClosedPipe
	}
	if t.ChunkSize > 0 && len(p) > t.ChunkSize {
		p = p[:t.ChunkSize]
	}
	if t.FailAfter > 0 {
		left := t.FailAfter - t.read.Load()
		if left <= 0 {
			if t.Err != nil {
				return 0, t.Err
			}
			return 0, ErrInjected
		}
		if int64(len(p)) > left {
			p = p[:left]
		}
	}

	n, err := t.r.Read(p)
	t.read.Add(int64(n))
	return n, err
}

// Close implements io.Closer.
func (t *TrackingReadCloser) Close() error {
	t.closes.Add(1)
	t.once.Do(func() { close(t.closeCh) })
	return nil
}

// BytesRead returns the bytes handed out so far.
func (t *TrackingReadCloser) BytesRead() int64 {
	return t.read.Load()
}

// Closes returns how many times Close was called.
func (t *TrackingReadCloser) Closes() int {
	return int(t.closes.Load())
}

// TrackingSource is a resource-tracking byte source. Every Open hands out a new
// TrackingReadCloser so tests can assert that each acquired stream was released.
type TrackingSource struct {
	// Data is the content every stream yields
	Data []byte

	// ChunkSize, FailAfter, Err and Block are copied onto every stream
	ChunkSize int
	FailAfter int64
	Err       error
	Block     bool

	// OpenErr makes Open fail without acquiring a stream
	OpenErr error

	opens   atomic.Int32
	mu      sync.Mutex
	streams []*TrackingReadCloser
}

// Open implements the browserfile Source contract.
func (s *TrackingSource) Open(ctx context.Context) (io.ReadCloser, error) {
	s.opens.Add(1)
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc := NewTrackingReadCloser(s.Data)
	rc.ChunkSize = s.ChunkSize
	rc.FailAfter = s.FailAfter
	rc.Err = s.Err
	rc.Block = s.Block

	s.mu.Lock()
	s.streams = append(s.streams, rc)
	s.mu.Unlock()
	return rc, nil
}

// Opens returns how many times Open was called.
func (s *TrackingSource) Opens() int {
	return int(s.opens.Load())
}

// Streams returns the streams acquired so far.
func (s *TrackingSource) Streams() []*TrackingReadCloser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*TrackingReadCloser(nil), s.streams...)
}

// AllReleased reports whether every acquired stream was closed exactly once.
func (s *TrackingSource) AllReleased() bool {
	for _, rc := range s.Streams() {
		if rc.Closes() != 1 {
			return false
		}
	}
	return true
}
