package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harborlist/harborlist/internal/config"
)

// Listing is a boat listing. Created and browsed through the generic
// marketplace surface; the media operations only consume its identity
// and ownership.
type Listing struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	PriceCents  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time

	Photos []ListingPhoto
}

type ListListingsOption struct {
	OwnerID uuid.UUID
	Title   string
	Limit   int
	Skip    int
	SortBy  string
	SortIn  string
}

func (u Usecase) CreateListing(ctx context.Context, l Listing) (Listing, error) {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return Listing{}, fmt.Errorf("%w: user id not found in context", ErrPermissionDenied)
	}
	l.OwnerID = userID
	return u.repo.CreateListing(ctx, l)
}

func (u Usecase) GetListingByID(ctx context.Context, id uuid.UUID) (Listing, error) {
	listing, err := u.repo.GetListingByID(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	for i := range listing.Photos {
		listing.Photos[i].URL = u.fileStorageProvider.GetPublicURL(listing.Photos[i].StorageKey)
	}
	return listing, nil
}

func (u Usecase) ListListings(ctx context.Context, opt ListListingsOption) ([]Listing, int, error) {
	return u.repo.ListListings(ctx, opt)
}

// authorizeListingOwner gates every mutating media operation: the
// acting user must be the listing's recorded owner. An absent or
// unparseable identity is treated as not the owner.
func (u Usecase) authorizeListingOwner(ctx context.Context, listingID uuid.UUID) (Listing, error) {
	listing, err := u.repo.GetListingByID(ctx, listingID)
	if err != nil {
		return Listing{}, err
	}

	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return Listing{}, fmt.Errorf("%w: user id not found in context", ErrPermissionDenied)
	}
	if userID != listing.OwnerID {
		return Listing{}, fmt.Errorf("%w: user %s does not own listing %s", ErrPermissionDenied, userID, listingID)
	}

	return listing, nil
}
