package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborlist/harborlist/internal/usecase"
)

type Listing struct {
	ID          uuid.UUID       `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	OwnerID     uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index"`
	Title       string          `gorm:"column:title;type:varchar(255);not null"`
	Description string          `gorm:"column:description;type:text"`
	PriceCents  int64           `gorm:"column:price_cents;type:bigint;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
	DeletedAt   *gorm.DeletedAt `gorm:"column:deleted_at"`

	Owner  *User          `gorm:"foreignKey:OwnerID;references:ID"`
	Photos []ListingPhoto `gorm:"foreignKey:ListingID"`
}

func (Listing) TableName() string {
	return "listings"
}

func (l Listing) ConvertToUsecase() usecase.Listing {
	var d *time.Time
	if l.DeletedAt != nil {
		d = &l.DeletedAt.Time
	}
	ul := usecase.Listing{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		PriceCents:  l.PriceCents,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		DeletedAt:   d,
	}
	for _, p := range l.Photos {
		ul.Photos = append(ul.Photos, p.ConvertToUsecase())
	}
	return ul
}

func (s *service) CreateListing(ctx context.Context, l usecase.Listing) (usecase.Listing, error) {
	listing := Listing{
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		PriceCents:  l.PriceCents,
	}

	if err := s.db.
		WithContext(ctx).
		Create(&listing).
		Error; err != nil {

		return usecase.Listing{}, err
	}

	return listing.ConvertToUsecase(), nil
}

func (s *service) GetListingByID(ctx context.Context, id uuid.UUID) (usecase.Listing, error) {
	var listing Listing

	err := s.db.
		WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&listing, id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.Listing{}, usecase.ErrNotFound
		}
		return usecase.Listing{}, err
	}

	return listing.ConvertToUsecase(), nil
}

func (s *service) ListListings(ctx context.Context, opt usecase.ListListingsOption) ([]usecase.Listing, int, error) {
	var (
		listings []Listing
		count    int64
	)

	db := s.db.
		Model(&Listing{}).
		WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		})

	if opt.OwnerID != uuid.Nil {
		db = db.Where("owner_id = ?", opt.OwnerID)
	}

	if opt.Title != "" {
		db = db.Where("title ILIKE ?", "%"+opt.Title+"%")
	}

	if err := db.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if opt.Limit > 0 {
		db = db.Limit(opt.Limit)
	}
	if opt.Skip > 0 {
		db = db.Offset(opt.Skip)
	}

	sortBy := "created_at"
	sortIn := "desc"
	if opt.SortBy != "" {
		sortBy = opt.SortBy
	}
	if opt.SortIn != "" {
		sortIn = opt.SortIn
	}

	if err := db.
		Order(sortBy + " " + sortIn).
		Find(&listings).
		Error; err != nil {
		return nil, 0, err
	}

	ulistings := make([]usecase.Listing, 0, len(listings))
	for _, l := range listings {
		ulistings = append(ulistings, l.ConvertToUsecase())
	}

	return ulistings, int(count), nil
}
