package browserfile

import (
	"bytes"
	"context"
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
)

// memorySource serves a fixed byte slice. Every Open starts from the beginning,
// so concurrent opens are safe.
type memorySource struct {
	data []byte
}

func (m memorySource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

// NewMemoryFile creates a re-readable handle over data, e.g. a file the browser
// sent in a single message.
//
// meta is kept as given: a declared Size that differs from len(data) is not
// corrected, because the declared size is client data and the stream guard
// enforces the ceiling on the bytes actually read.
func NewMemoryFile(meta filetypes.Metadata, data []byte, opts ...filetypes.Option) (*Handle, error) {
	return New(meta, memorySource{data: data}, opts...)
}
