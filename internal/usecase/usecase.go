package usecase

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence boundary, implemented by the
// database package.
type Repository interface {
	Health() map[string]string
	Close() error

	GetAuthUserByUID(context.Context, string) (AuthUser, error)

	CreateListing(context.Context, Listing) (Listing, error)
	GetListingByID(context.Context, uuid.UUID) (Listing, error)
	ListListings(context.Context, ListListingsOption) ([]Listing, int, error)

	CreateListingPhoto(context.Context, ListingPhoto) (ListingPhoto, error)
	GetListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) (ListingPhoto, error)
	ListListingPhotos(context.Context, uuid.UUID) ([]ListingPhoto, error)
	SetPrimaryListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) error
	RemoveListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) error
	ReconcileListingPhotos(ctx context.Context, listingID uuid.UUID) error
}

// FileStorageProvider is the object storage boundary, implemented by
// the filestorage package.
type FileStorageProvider interface {
	UploadFile(ctx context.Context, path string, data []byte, contentType string) error
	DeleteFile(ctx context.Context, path string) error
	GetPublicURL(path string) string
}

// IdentityProvider verifies end-user credentials, implemented by the
// firebase package.
type IdentityProvider interface {
	VerifyIDToken(ctx context.Context, token string) (string, error)
}

// CacheProvider holds read-path photo lists, implemented by the cache
// package. A nil-safe no-op implementation is acceptable.
type CacheProvider interface {
	GetListingPhotos(ctx context.Context, listingID uuid.UUID) ([]ListingPhoto, bool)
	SetListingPhotos(ctx context.Context, listingID uuid.UUID, photos []ListingPhoto)
	InvalidateListingPhotos(ctx context.Context, listingID uuid.UUID)
}

// QueueClient enqueues background repair tasks, implemented by the
// queue package.
type QueueClient interface {
	EnqueueReconcilePhotos(ctx context.Context, listingID uuid.UUID) error
}

// NopCache satisfies CacheProvider where no cache is deployed.
type NopCache struct{}

func (NopCache) GetListingPhotos(context.Context, uuid.UUID) ([]ListingPhoto, bool) {
	return nil, false
}
func (NopCache) SetListingPhotos(context.Context, uuid.UUID, []ListingPhoto) {}
func (NopCache) InvalidateListingPhotos(context.Context, uuid.UUID)          {}

func New(
	repo Repository,
	fsp FileStorageProvider,
	ip IdentityProvider,
	cp CacheProvider,
	qc QueueClient,
) Usecase {
	return Usecase{
		repo:                repo,
		fileStorageProvider: fsp,
		identityProvider:    ip,
		cacheProvider:       cp,
		queueClient:         qc,
		maxPhotoSizeBytes:   maxPhotoSizeFromEnv(),
	}
}

type Usecase struct {
	repo                Repository
	fileStorageProvider FileStorageProvider
	identityProvider    IdentityProvider
	cacheProvider       CacheProvider
	queueClient         QueueClient
	emailProvider       EmailProvider

	maxPhotoSizeBytes int64
}

// WithEmailProvider attaches an operator alert mailer, used by the
// worker's repair handler only.
func (u Usecase) WithEmailProvider(ep EmailProvider) Usecase {
	u.emailProvider = ep
	return u
}

func (u Usecase) Health() map[string]string {
	return u.repo.Health()
}

func (u Usecase) Close() error {
	return u.repo.Close()
}
