package browserfile

import (
	"context"
	"io"
)

// Source produces the bytes behind a File.
//
// Open is called once per OpenReadStream. Re-readable sources return an
// independent stream on every call; one-shot sources fail the second call with
// errors.ErrAlreadyConsumed. The returned stream must be finite, yield bytes in
// the order the client sent them, and release its resources on Close.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(ctx context.Context) (io.ReadCloser, error)

// Open calls f(ctx).
func (f SourceFunc) Open(ctx context.Context) (io.ReadCloser, error) {
	return f(ctx)
}
