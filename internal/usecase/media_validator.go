package usecase

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strconv"

	"github.com/harborlist/harborlist/internal/config"
)

var allowedPhotoMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func maxPhotoSizeFromEnv() int64 {
	if v, err := strconv.ParseInt(
		os.Getenv(config.ENV_KEY_MAX_PHOTO_SIZE_BYTES), 10, 64); err == nil && v > 0 {
		return v
	}
	return config.DEFAULT_MAX_PHOTO_SIZE_BYTES
}

// validatePhoto checks the declared content type against the allow-list
// and the configured size ceiling, then sniffs the payload so a renamed
// non-image cannot slip through. It runs before any external call.
func (u Usecase) validatePhoto(mimeType string, content []byte) error {
	if _, ok := allowedPhotoMimeTypes[mimeType]; !ok {
		return &ValidationError{Reason: fmt.Sprintf("unsupported content type %q", mimeType)}
	}
	if int64(len(content)) > u.maxPhotoSizeBytes {
		return &ValidationError{
			Reason: fmt.Sprintf("file size %d exceeds limit of %d bytes", len(content), u.maxPhotoSizeBytes),
		}
	}
	if len(content) == 0 {
		return &ValidationError{Reason: "empty file"}
	}
	if sniffed := http.DetectContentType(content); sniffed != mimeType {
		return &ValidationError{
			Reason: fmt.Sprintf("content type %q does not match file contents (%s)", mimeType, sniffed),
		}
	}
	return nil
}

var reIllegalFilenameChars = regexp.MustCompile(`[^\w\-.]`)

func sanitizeFilename(filename string) string {
	if filename == "" {
		return "unnamed"
	}
	return reIllegalFilenameChars.ReplaceAllString(filename, "_")
}
