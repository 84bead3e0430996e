package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/harborlist/harborlist/internal/usecase"
)

type Photo struct {
	ID           string            `json:"id"`
	ListingID    string            `json:"listing_id"`
	URL          string            `json:"url"`
	FileName     string            `json:"file_name,omitempty"`
	MimeType     string            `json:"mime_type,omitempty"`
	SizeBytes    int64             `json:"size_bytes,omitempty"`
	IsPrimary    bool              `json:"is_primary"`
	DisplayOrder int               `json:"display_order"`
	Colors       map[string]string `json:"colors,omitempty"`
	CreatedAt    string            `json:"created_at,omitempty"`
	UpdatedAt    string            `json:"updated_at,omitempty"`
}

func convertPhoto(p usecase.ListingPhoto) Photo {
	photo := Photo{
		ID:           p.ID.String(),
		ListingID:    p.ListingID.String(),
		URL:          p.URL,
		FileName:     p.FileName,
		MimeType:     p.MimeType,
		SizeBytes:    p.SizeBytes,
		IsPrimary:    p.IsPrimary,
		DisplayOrder: p.DisplayOrder,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
	if len(p.Colors) > 0 {
		colors := map[string]string{}
		if err := json.Unmarshal(p.Colors, &colors); err == nil {
			photo.Colors = colors
		}
	}
	return photo
}

// statusFromError maps the usecase error taxonomy to HTTP statuses.
// Storage failures are upstream faults, so they surface as 502 and the
// client is expected to retry manually.
func statusFromError(err error) int {
	var ve *usecase.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrStorageUploadFailed),
		errors.Is(err, usecase.ErrStorageDeleteFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type ListListingPhotosRequest struct {
	ListingID string `param:"id" validate:"required,uuid"`
}

func (s *Server) ListListingPhotos(ctx echo.Context) error {
	var req ListListingPhotosRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	listingID, _ := uuid.Parse(req.ListingID)
	list, err := s.server.ListListingPhotos(ctx.Request().Context(), listingID)
	if err != nil {
		return ctx.JSON(statusFromError(err), map[string]string{"error": err.Error()})
	}

	photos := make([]Photo, 0, len(list))
	for _, p := range list {
		photos = append(photos, convertPhoto(p))
	}

	return ctx.JSON(200, Res{Data: photos})
}

type UploadListingPhotoRequest struct {
	ListingID string `param:"id" validate:"required,uuid"`
}

func (s *Server) UploadListingPhoto(ctx echo.Context) error {
	var req UploadListingPhotoRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	fh, err := ctx.FormFile("photo")
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": "photo file is required"})
	}

	f, err := fh.Open()
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	listingID, _ := uuid.Parse(req.ListingID)
	photo, err := s.server.UploadListingPhoto(ctx.Request().Context(), usecase.UploadListingPhotoInput{
		ListingID: listingID,
		FileName:  fh.Filename,
		MimeType:  fh.Header.Get("Content-Type"),
		Content:   content,
	})
	if err != nil {
		return ctx.JSON(statusFromError(err), map[string]string{"error": err.Error()})
	}

	return ctx.JSON(http.StatusCreated, Res{Data: convertPhoto(photo)})
}

type ListingPhotoRequest struct {
	ListingID string `param:"id" validate:"required,uuid"`
	PhotoID   string `param:"photoId" validate:"required,uuid"`
}

func (s *Server) SetPrimaryListingPhoto(ctx echo.Context) error {
	var req ListingPhotoRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	listingID, _ := uuid.Parse(req.ListingID)
	photoID, _ := uuid.Parse(req.PhotoID)

	if err := s.server.SetPrimaryListingPhoto(ctx.Request().Context(), listingID, photoID); err != nil {
		return ctx.JSON(statusFromError(err), map[string]string{"error": err.Error()})
	}

	return ctx.JSON(200, Res{Message: "primary photo updated"})
}

func (s *Server) DeleteListingPhoto(ctx echo.Context) error {
	var req ListingPhotoRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	listingID, _ := uuid.Parse(req.ListingID)
	photoID, _ := uuid.Parse(req.PhotoID)

	err := s.server.DeleteListingPhoto(ctx.Request().Context(), listingID, photoID)
	if err != nil {
		// The photo and its blob are gone; only the follow-up
		// promotion/compaction is pending. A repair task is queued, so
		// the deletion still reports success.
		if errors.Is(err, usecase.ErrReconciliationIncomplete) {
			return ctx.JSON(200, map[string]any{
				"message":                "photo deleted",
				"reconciliation_pending": true,
			})
		}
		return ctx.JSON(statusFromError(err), map[string]string{"error": err.Error()})
	}

	return ctx.JSON(200, Res{Message: "photo deleted"})
}
