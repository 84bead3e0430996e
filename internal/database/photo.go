package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/harborlist/harborlist/internal/usecase"
)

// ListingPhoto rows are hard-deleted: a row must never outlive its blob
// beyond the documented deletion window, so there is no soft delete.
type ListingPhoto struct {
	ID           uuid.UUID      `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	ListingID    uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index"`
	StorageKey   string         `gorm:"column:storage_key;type:varchar(255);not null;uniqueIndex"`
	FileName     string         `gorm:"column:file_name;type:varchar(255)"`
	MimeType     string         `gorm:"column:mime_type;type:varchar(100);not null"`
	SizeBytes    int64          `gorm:"column:size_bytes;not null"`
	IsPrimary    bool           `gorm:"column:is_primary;type:boolean;default:false"`
	DisplayOrder int            `gorm:"column:display_order;type:int;default:0"`
	Colors       datatypes.JSON `gorm:"column:colors"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`

	Listing *Listing `gorm:"foreignKey:ListingID;references:ID"`
}

func (ListingPhoto) TableName() string {
	return "listing_photos"
}

func (p ListingPhoto) ConvertToUsecase() usecase.ListingPhoto {
	return usecase.ListingPhoto{
		ID:           p.ID,
		ListingID:    p.ListingID,
		StorageKey:   p.StorageKey,
		FileName:     p.FileName,
		MimeType:     p.MimeType,
		SizeBytes:    p.SizeBytes,
		IsPrimary:    p.IsPrimary,
		DisplayOrder: p.DisplayOrder,
		Colors:       p.Colors,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// CreateListingPhoto inserts a photo row, deriving is_primary and
// display_order from the listing's current photo count. The parent
// listing row is locked so two concurrent first uploads cannot both
// become primary.
func (s *service) CreateListingPhoto(ctx context.Context, up usecase.ListingPhoto) (usecase.ListingPhoto, error) {
	photo := ListingPhoto{
		ListingID:  up.ListingID,
		StorageKey: up.StorageKey,
		FileName:   up.FileName,
		MimeType:   up.MimeType,
		SizeBytes:  up.SizeBytes,
		Colors:     up.Colors,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing Listing
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&listing, up.ListingID).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.
			Model(&ListingPhoto{}).
			Where("listing_id = ?", up.ListingID).
			Count(&count).
			Error; err != nil {
			return err
		}

		photo.IsPrimary = count == 0
		photo.DisplayOrder = int(count)

		return tx.Create(&photo).Error
	})
	if err != nil {
		return usecase.ListingPhoto{}, err
	}

	return photo.ConvertToUsecase(), nil
}

func (s *service) GetListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) (usecase.ListingPhoto, error) {
	var photo ListingPhoto

	err := s.db.
		WithContext(ctx).
		Where("listing_id = ?", listingID).
		First(&photo, photoID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.ListingPhoto{}, usecase.ErrNotFound
		}
		return usecase.ListingPhoto{}, err
	}

	return photo.ConvertToUsecase(), nil
}

func (s *service) ListListingPhotos(ctx context.Context, listingID uuid.UUID) ([]usecase.ListingPhoto, error) {
	var photos []ListingPhoto

	err := s.db.
		WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("display_order ASC").
		Find(&photos).
		Error
	if err != nil {
		return nil, err
	}

	uphotos := make([]usecase.ListingPhoto, 0, len(photos))
	for _, p := range photos {
		uphotos = append(uphotos, p.ConvertToUsecase())
	}

	return uphotos, nil
}

// SetPrimaryListingPhoto clears the current primary and sets the target
// in one transaction. The listing's photo rows are locked for the
// duration, so concurrent swaps on the same listing serialize and no
// committed state ever has zero or two primaries.
func (s *service) SetPrimaryListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target ListingPhoto
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("listing_id = ?", listingID).
			First(&target, photoID).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrNotFound
			}
			return err
		}

		if target.IsPrimary {
			// already primary, nothing to swap
			return nil
		}

		if err := tx.
			Model(&ListingPhoto{}).
			Where("listing_id = ? AND is_primary", listingID).
			Update("is_primary", false).
			Error; err != nil {
			return err
		}

		return tx.
			Model(&ListingPhoto{}).
			Where("id = ?", photoID).
			Update("is_primary", true).
			Error
	})
}

// RemoveListingPhoto hard-deletes the row. Promotion and compaction are
// the reconciler's follow-up step, not part of this delete. The parent
// listing row is locked first so the delete serializes with concurrent
// uploads deriving is_primary and display_order from the photo count.
func (s *service) RemoveListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing Listing
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&listing, listingID).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrNotFound
			}
			return err
		}

		res := tx.
			Where("listing_id = ?", listingID).
			Delete(&ListingPhoto{}, photoID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrNotFound
		}
		return nil
	})
}

// ReconcileListingPhotos restores the photo-set invariants for a
// listing in one transaction: if no primary remains, the photo with the
// lowest display order is promoted, and display_order is compacted to a
// dense zero-based sequence preserving relative order. The listing row
// lock keeps reconciliation from racing an in-flight upload's
// count-and-insert.
func (s *service) ReconcileListingPhotos(ctx context.Context, listingID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing Listing
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&listing, listingID).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// listing gone, nothing left to reconcile
				return nil
			}
			return err
		}

		var photos []ListingPhoto
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("listing_id = ?", listingID).
			Order("display_order ASC, created_at ASC").
			Find(&photos).
			Error; err != nil {
			return err
		}

		if len(photos) == 0 {
			return nil
		}

		hasPrimary := false
		for _, p := range photos {
			if p.IsPrimary {
				hasPrimary = true
				break
			}
		}
		if !hasPrimary {
			if err := tx.
				Model(&ListingPhoto{}).
				Where("id = ?", photos[0].ID).
				Update("is_primary", true).
				Error; err != nil {
				return err
			}
		}

		for i, p := range photos {
			if p.DisplayOrder == i {
				continue
			}
			if err := tx.
				Model(&ListingPhoto{}).
				Where("id = ?", p.ID).
				Update("display_order", i).
				Error; err != nil {
				return err
			}
		}

		return nil
	})
}
