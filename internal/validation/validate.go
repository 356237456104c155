// Package validation provides centralized input validation logic.
// This covers read limits, handle metadata, selection limits and object store locations.
//
// Client-reported metadata is never rejected for its content; only values the
// module would compute with (sizes, counts) are checked.
package validation

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
)

// maxObjectKeyLength is the S3 limit on key length in bytes.
const maxObjectKeyLength = 1024

// ValidateReadConfig validates the settings of an OpenReadStream call.
func ValidateReadConfig(cfg *filetypes.ReadConfig) error {
	if cfg == nil {
		return errors.NewError("validateReadConfig", errors.ErrInvalidInput).
			WithMessage("read config cannot be nil")
	}
	if cfg.MaxAllowedSize <= 0 {
		return errors.NewError("validateReadConfig", errors.ErrInvalidInput).
			WithMessage("max allowed size must be positive")
	}
	return nil
}

// ValidateMetadata validates the client-reported metadata a handle is built from.
// Only the size is checked: a negative byte count cannot be compared against a limit.
func ValidateMetadata(meta filetypes.Metadata) error {
	if meta.Size < 0 {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).
			WithName(meta.Name).
			WithMessage("size cannot be negative")
	}
	return nil
}

// ValidateMaxFileCount validates the limit on files handed out from a selection.
func ValidateMaxFileCount(count int) error {
	if count <= 0 {
		return errors.NewError("validateMaxFileCount", errors.ErrInvalidInput).
			WithMessage("max file count must be positive")
	}
	return nil
}

// ValidateRelayCapacity validates the chunk queue size of a relay.
func ValidateRelayCapacity(capacity int) error {
	if capacity < 0 {
		return errors.NewError("validateRelayCapacity", errors.ErrInvalidInput).
			WithMessage("relay capacity cannot be negative")
	}
	return nil
}

// ValidateBucketName validates that an object store bucket name is present and printable.
func ValidateBucketName(bucket string) error {
	if bucket == "" {
		return errors.NewError("validateBucketName", errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}
	if hasControlCharacters(bucket) {
		return errors.NewError("validateBucketName", errors.ErrInvalidInput).
			WithMessage("bucket name cannot contain control characters")
	}
	return nil
}

// ValidateObjectKey validates that an object key is usable as a file source.
// This includes preventing path traversal attacks and ensuring valid characters.
func ValidateObjectKey(key string) error {
	if key == "" {
		return errors.NewError("validateObjectKey", errors.ErrInvalidInput).
			WithMessage("object key cannot be empty")
	}

	if hasPathTraversal(key) {
		return errors.NewError("validateObjectKey", errors.ErrInvalidInput).
			WithMessage("object key cannot contain path traversal sequences")
	}

	if len(key) > maxObjectKeyLength {
		return errors.NewError("validateObjectKey", errors.ErrInvalidInput).
			WithMessage("object key cannot exceed 1024 characters")
	}

	if hasControlCharacters(key) {
		return errors.NewError("validateObjectKey", errors.ErrInvalidInput).
			WithMessage("object key cannot contain control characters")
	}

	return nil
}

// hasPathTraversal checks for path traversal attempts in object keys
func hasPathTraversal(key string) bool {
	if strings.Contains(key, "..") {
		return true
	}

	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "/") {
		return true
	}

	// Windows-style absolute paths
	if len(cleaned) >= 3 && cleaned[1] == ':' && (cleaned[2] == '\\' || cleaned[2] == '/') {
		return true
	}

	return false
}

// hasControlCharacters checks for control characters in the value
func hasControlCharacters(s string) bool {
	for _, char := range s {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}
