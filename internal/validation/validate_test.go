package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
)

func TestValidateReadConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *filetypes.ReadConfig
		wantErr bool
	}{
		{name: "default limit", cfg: &filetypes.ReadConfig{MaxAllowedSize: filetypes.DefaultMaxAllowedSize}},
		{name: "one byte", cfg: &filetypes.ReadConfig{MaxAllowedSize: 1}},
		{name: "nil config", cfg: nil, wantErr: true},
		{name: "zero limit", cfg: &filetypes.ReadConfig{MaxAllowedSize: 0}, wantErr: true},
		{name: "negative limit", cfg: &filetypes.ReadConfig{MaxAllowedSize: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReadConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsInvalidInput(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateMetadata(t *testing.T) {
	tests := []struct {
		name    string
		meta    filetypes.Metadata
		wantErr bool
	}{
		{name: "empty metadata", meta: filetypes.Metadata{}},
		{name: "odd name is accepted", meta: filetypes.Metadata{Name: "../../etc/passwd\x00", Size: 12}},
		{name: "negative size", meta: filetypes.Metadata{Name: "a.txt", Size: -5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMetadata(tt.meta)
			if tt.wantErr {
				assert.True(t, errors.IsInvalidInput(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateMaxFileCount(t *testing.T) {
	assert.NoError(t, ValidateMaxFileCount(1))
	assert.NoError(t, ValidateMaxFileCount(filetypes.DefaultMaxFileCount))
	assert.True(t, errors.IsInvalidInput(ValidateMaxFileCount(0)))
	assert.True(t, errors.IsInvalidInput(ValidateMaxFileCount(-3)))
}

func TestValidateRelayCapacity(t *testing.T) {
	assert.NoError(t, ValidateRelayCapacity(0))
	assert.NoError(t, ValidateRelayCapacity(filetypes.DefaultRelayCapacity))
	assert.True(t, errors.IsInvalidInput(ValidateRelayCapacity(-1)))
}

func TestValidateBucketName(t *testing.T) {
	assert.NoError(t, ValidateBucketName("uploads"))
	assert.Error(t, ValidateBucketName(""))
	assert.Error(t, ValidateBucketName("up\nloads"))
}

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "simple key", key: "incoming/photo.png"},
		{name: "unicode key", key: "incoming/résumé.pdf"},
		{name: "empty key", key: "", wantErr: true},
		{name: "parent traversal", key: "incoming/../secrets.txt", wantErr: true},
		{name: "absolute path", key: "/etc/passwd", wantErr: true},
		{name: "windows absolute path", key: `C:\windows\win.ini`, wantErr: true},
		{name: "control character", key: "photo\x07.png", wantErr: true},
		{name: "too long", key: strings.Repeat("k", 1025), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsInvalidInput(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}
