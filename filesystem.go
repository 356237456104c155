package browserfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	bferrors "github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
)

// DefaultContentType is reported when a file's extension maps to no known MIME type.
const DefaultContentType = "application/octet-stream"

// filesystemSource opens a path on a filesystem. Each Open gets its own file
// handle, so the handle is re-readable while the path exists.
type filesystemSource struct {
	fs   fs.Filesystem
	path string
}

func (s filesystemSource) Open(context.Context) (io.ReadCloser, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", bferrors.ErrUnavailable, err)
		}
		return nil, err
	}
	return f, nil
}

// NewFilesystemFile creates a handle whose bytes are read from path on filesystem,
// e.g. a browser upload spooled to disk by the transport layer. meta is the
// client-reported metadata and is not compared with the file on disk.
// A nil filesystem means the OS filesystem rooted at /.
func NewFilesystemFile(
	filesystem fs.Filesystem,
	path string,
	meta filetypes.Metadata,
	opts ...filetypes.Option,
) (*Handle, error) {
	if path == "" {
		return nil, bferrors.NewError("newFilesystemFile", bferrors.ErrInvalidInput).
			WithName(meta.Name).
			WithMessage("path cannot be empty")
	}
	if filesystem == nil {
		filesystem = billy.NewOSFS("/")
	}
	return New(meta, filesystemSource{fs: filesystem, path: path}, opts...)
}

// StatFile creates a handle for path with metadata taken from the filesystem:
// the base name, size and modification time, and a content type derived from
// the file extension.
func StatFile(filesystem fs.Filesystem, path string, opts ...filetypes.Option) (*Handle, error) {
	if path == "" {
		return nil, bferrors.NewError("statFile", bferrors.ErrInvalidInput).
			WithMessage("path cannot be empty")
	}
	if filesystem == nil {
		filesystem = billy.NewOSFS("/")
	}

	info, err := filesystem.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, bferrors.NewError("statFile", fmt.Errorf("%w: %w", bferrors.ErrUnavailable, err)).WithName(path)
		}
		return nil, bferrors.Transport("statFile", path, err)
	}
	if info.IsDir() {
		return nil, bferrors.NewError("statFile", bferrors.ErrInvalidInput).
			WithName(path).
			WithMessage("path is a directory")
	}

	meta := filetypes.Metadata{
		Name:         info.Name(),
		LastModified: info.ModTime(),
		Size:         info.Size(),
		ContentType:  contentTypeFromExtension(info.Name()),
	}
	return New(meta, filesystemSource{fs: filesystem, path: path}, opts...)
}

// contentTypeFromExtension detects content type from file extension
func contentTypeFromExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return DefaultContentType
}
