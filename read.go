package browserfile

import (
	"bytes"
	"context"
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
)

// ReadAll opens f, reads it to the end and closes the stream.
// The buffer is pre-sized from the declared size, capped at the maximum allowed size.
func ReadAll(ctx context.Context, f File, opts ...filetypes.ReadOption) ([]byte, error) {
	cfg := defaultReadConfig()
	applyReadOptions(cfg, opts)

	rc, err := f.OpenReadStream(ctx, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()

	var buf bytes.Buffer
	if hint := min(f.Size(), cfg.MaxAllowedSize); hint > 0 {
		buf.Grow(int(hint))
	}
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
