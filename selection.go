package browserfile

import (
	"fmt"

	bferrors "github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/internal/validation"
)

// Selection is the set of files chosen in one browser file input change.
type Selection struct {
	files []File
}

// NewSelection creates a selection over files, in the order the browser listed them.
func NewSelection(files ...File) *Selection {
	return &Selection{files: append([]File(nil), files...)}
}

// Count returns the number of selected files.
func (s *Selection) Count() int {
	return len(s.files)
}

// File returns the selected file of a single-file input.
// It fails with ErrInvalidInput unless exactly one file was selected.
func (s *Selection) File() (File, error) {
	if len(s.files) != 1 {
		return nil, bferrors.NewError("selectionFile", bferrors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("expected exactly one file, got %d", len(s.files)))
	}
	return s.files[0], nil
}

// Files returns every selected file. It fails with ErrInvalidInput when more
// files were selected than the maximum file count (10 unless WithMaxFileCount
// says otherwise).
func (s *Selection) Files(opts ...filetypes.SelectionOption) ([]File, error) {
	const op = "selectionFiles"

	cfg := defaultSelectionConfig()
	applySelectionOptions(cfg, opts)
	if err := validation.ValidateMaxFileCount(cfg.MaxFileCount); err != nil {
		return nil, bferrors.NewError(op, err)
	}

	if len(s.files) > cfg.MaxFileCount {
		return nil, bferrors.NewError(op, bferrors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("the maximum number of files accepted is %d, but %d were supplied",
				cfg.MaxFileCount, len(s.files)))
	}
	return append([]File(nil), s.files...), nil
}
