package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/harborlist/harborlist/internal/usecase"
)

type Listing struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	PriceCents  int64   `json:"price_cents"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
	Photos      []Photo `json:"photos,omitempty"`
}

func convertListing(l usecase.Listing) Listing {
	listing := Listing{
		ID:          l.ID.String(),
		OwnerID:     l.OwnerID.String(),
		Title:       l.Title,
		Description: l.Description,
		PriceCents:  l.PriceCents,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.Format(time.RFC3339),
	}
	for _, p := range l.Photos {
		listing.Photos = append(listing.Photos, convertPhoto(p))
	}
	return listing
}

type ListListingsRequest struct {
	OwnerID string `query:"owner_id" validate:"omitempty,uuid"`
	Title   string `query:"title"`
	Skip    int    `query:"skip"`
	Limit   int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	SortBy  string `query:"sort_by" validate:"omitempty,oneof=created_at updated_at title price_cents"`
	SortIn  string `query:"sort_in" validate:"omitempty,oneof=asc desc"`
}

func (s *Server) ListListings(ctx echo.Context) error {
	var req = ListListingsRequest{Limit: 20}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	var ownerID uuid.UUID
	if req.OwnerID != "" {
		ownerID, _ = uuid.Parse(req.OwnerID)
	}

	list, total, err := s.server.ListListings(ctx.Request().Context(), usecase.ListListingsOption{
		OwnerID: ownerID,
		Title:   req.Title,
		Skip:    req.Skip,
		Limit:   req.Limit,
		SortBy:  req.SortBy,
		SortIn:  req.SortIn,
	})
	if err != nil {
		return ctx.JSON(500, map[string]string{"error": err.Error()})
	}

	listings := make([]Listing, 0, len(list))
	for _, l := range list {
		listings = append(listings, convertListing(l))
	}

	return ctx.JSON(200, Res{
		Data: listings,
		Meta: &Meta{
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}

type CreateListingRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
}

func (s *Server) CreateListing(ctx echo.Context) error {
	var req CreateListingRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	listing, err := s.server.CreateListing(ctx.Request().Context(), usecase.Listing{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		return ctx.JSON(statusFromError(err), map[string]string{"error": err.Error()})
	}

	return ctx.JSON(http.StatusCreated, Res{Data: convertListing(listing)})
}

type GetListingByIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) GetListingByID(ctx echo.Context) error {
	var req GetListingByIDRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	listing, err := s.server.GetListingByID(ctx.Request().Context(), id)
	if err != nil {
		return ctx.JSON(statusFromError(err), map[string]string{"error": err.Error()})
	}

	return ctx.JSON(200, Res{Data: convertListing(listing)})
}
