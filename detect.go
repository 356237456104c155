package browserfile

import (
	"context"
	"io"

	"github.com/gabriel-vasile/mimetype"

	bferrors "github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
)

// sniffLimit is how many leading bytes content detection looks at.
const sniffLimit = 3072

// DetectContentType sniffs the MIME type from the first bytes of the file.
//
// The result is derived from the content, unlike ContentType which is whatever
// the browser claimed. It opens a stream with opts, so the declared size is
// checked against the maximum allowed size exactly as in OpenReadStream, and
// one-shot sources are consumed. At most sniffLimit bytes are read.
func DetectContentType(ctx context.Context, f File, opts ...filetypes.ReadOption) (string, error) {
	rc, err := f.OpenReadStream(ctx, opts...)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = rc.Close()
	}()

	mtype, err := mimetype.DetectReader(io.LimitReader(rc, sniffLimit))
	if err != nil {
		if bferrors.CodeOf(err) != bferrors.CodeUnknown {
			return "", err
		}
		return "", bferrors.Transport("detectContentType", f.Name(), err)
	}
	return mtype.String(), nil
}
