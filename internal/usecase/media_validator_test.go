package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harborlist/harborlist/internal/config"
)

func TestValidatePhoto(t *testing.T) {
	u := Usecase{maxPhotoSizeBytes: config.DEFAULT_MAX_PHOTO_SIZE_BYTES}

	tests := []struct {
		name     string
		mimeType string
		content  []byte
		wantErr  bool
	}{
		{"jpeg ok", "image/jpeg", jpegBytes(1024), false},
		{"png ok", "image/png", pngBytes(1024), false},
		{"gif ok", "image/gif", append([]byte("GIF89a"), make([]byte, 64)...), false},
		{"pdf rejected", "application/pdf", []byte("%PDF-1.7 some document body"), true},
		{"text rejected", "text/plain", []byte("definitely not an image"), true},
		{"svg rejected", "image/svg+xml", []byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"), true},
		{"spoofed extension", "image/jpeg", []byte("MZ executable bytes here....."), true},
		{"empty", "image/jpeg", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := u.validatePhoto(tt.mimeType, tt.content)
			if tt.wantErr {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePhoto_SizeCeiling(t *testing.T) {
	u := Usecase{maxPhotoSizeBytes: 100}

	assert.NoError(t, u.validatePhoto("image/jpeg", jpegBytes(100)))

	err := u.validatePhoto("image/jpeg", jpegBytes(101))
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "exceeds limit")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "bow-shot.v2.jpg", sanitizeFilename("bow-shot.v2.jpg"))
	assert.Equal(t, "bow_shot.jpg", sanitizeFilename("bow shot.jpg"))
	assert.Equal(t, "_.._etc_passwd", sanitizeFilename("/../etc/passwd"))
	assert.Equal(t, "unnamed", sanitizeFilename(""))
}
