package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"path"
	"time"

	"github.com/cenkalti/dominantcolor"
	"github.com/google/uuid"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ListingPhoto is one uploaded image tied to a listing. For a listing
// with at least one photo, exactly one has IsPrimary set, and
// DisplayOrder values form a dense zero-based sequence.
type ListingPhoto struct {
	ID           uuid.UUID
	ListingID    uuid.UUID
	StorageKey   string
	URL          string
	FileName     string
	MimeType     string
	SizeBytes    int64
	IsPrimary    bool
	DisplayOrder int
	Colors       []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UploadListingPhotoInput struct {
	ListingID uuid.UUID
	FileName  string
	MimeType  string
	Content   []byte
}

// storageKeyForPhoto derives a key unique per upload so an existing
// object is never overwritten.
func storageKeyForPhoto(listingID uuid.UUID, fileName string) string {
	ext := path.Ext(sanitizeFilename(fileName))
	return fmt.Sprintf("listings/%s/%d%s", listingID, time.Now().UnixNano(), ext)
}

// UploadListingPhoto stores the blob first and the record second, so an
// interrupted transfer never leaves a record pointing at a missing
// object. If the record insert fails after the blob was written, the
// blob is deleted again and the insert failure is surfaced.
func (u Usecase) UploadListingPhoto(ctx context.Context, in UploadListingPhotoInput) (ListingPhoto, error) {
	if _, err := u.authorizeListingOwner(ctx, in.ListingID); err != nil {
		return ListingPhoto{}, err
	}

	if err := u.validatePhoto(in.MimeType, in.Content); err != nil {
		return ListingPhoto{}, err
	}

	key := storageKeyForPhoto(in.ListingID, in.FileName)

	if err := u.fileStorageProvider.UploadFile(ctx, key, in.Content, in.MimeType); err != nil {
		return ListingPhoto{}, fmt.Errorf("%w: %v", ErrStorageUploadFailed, err)
	}

	photo := ListingPhoto{
		ListingID:  in.ListingID,
		StorageKey: key,
		FileName:   sanitizeFilename(in.FileName),
		MimeType:   in.MimeType,
		SizeBytes:  int64(len(in.Content)),
		Colors:     extractColors(in.Content),
	}

	created, err := u.repo.CreateListingPhoto(ctx, photo)
	if err != nil {
		// The blob is orphaned now. Compensate; if that also fails,
		// log for out-of-band cleanup. The insert failure is what the
		// caller needs to see either way.
		if derr := u.fileStorageProvider.DeleteFile(ctx, key); derr != nil {
			log.Printf("err_UploadListingPhoto_compensating_delete: listing=%s key=%s: %v", in.ListingID, key, derr)
		}
		return ListingPhoto{}, fmt.Errorf("%w: %v", ErrRecordPersistFailed, err)
	}

	u.cacheProvider.InvalidateListingPhotos(ctx, in.ListingID)

	created.URL = u.fileStorageProvider.GetPublicURL(created.StorageKey)
	return created, nil
}

// SetPrimaryListingPhoto moves the primary designation to the given
// photo. The swap happens in a single repository transaction, so
// concurrent reads never observe zero or two primaries. Idempotent.
func (u Usecase) SetPrimaryListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) error {
	if _, err := u.authorizeListingOwner(ctx, listingID); err != nil {
		return err
	}

	if err := u.repo.SetPrimaryListingPhoto(ctx, listingID, photoID); err != nil {
		return err
	}

	u.cacheProvider.InvalidateListingPhotos(ctx, listingID)
	return nil
}

// DeleteListingPhoto removes the blob first, fail-closed: if the blob
// delete fails, the record stays so the photo is still reachable. After
// the record is gone, primary promotion and order compaction run as a
// follow-up transaction, retried once; if both attempts fail a repair
// task is enqueued and ErrReconciliationIncomplete returned. The
// deletion itself has succeeded at that point.
func (u Usecase) DeleteListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) error {
	if _, err := u.authorizeListingOwner(ctx, listingID); err != nil {
		return err
	}

	photo, err := u.repo.GetListingPhoto(ctx, listingID, photoID)
	if err != nil {
		return err
	}

	if err := u.fileStorageProvider.DeleteFile(ctx, photo.StorageKey); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageDeleteFailed, err)
	}

	if err := u.repo.RemoveListingPhoto(ctx, listingID, photoID); err != nil {
		// Blob is gone but the record remains: an orphan record. Log it
		// for cleanup; no compensation is possible.
		log.Printf("err_DeleteListingPhoto_remove_record: listing=%s photo=%s key=%s: %v", listingID, photoID, photo.StorageKey, err)
		return fmt.Errorf("%w: %v", ErrRecordPersistFailed, err)
	}

	u.cacheProvider.InvalidateListingPhotos(ctx, listingID)

	if err := u.repo.ReconcileListingPhotos(ctx, listingID); err != nil {
		if err = u.repo.ReconcileListingPhotos(ctx, listingID); err != nil {
			log.Printf("err_DeleteListingPhoto_reconcile: listing=%s photo=%s: %v", listingID, photoID, err)
			if qerr := u.queueClient.EnqueueReconcilePhotos(ctx, listingID); qerr != nil {
				log.Printf("err_DeleteListingPhoto_enqueue_repair: listing=%s: %v", listingID, qerr)
			}
			return fmt.Errorf("%w: %v", ErrReconciliationIncomplete, err)
		}
	}

	// A read between the first invalidation and the reconcile can cache
	// the pre-promotion list; clear it again now that promotion and
	// compaction are committed.
	u.cacheProvider.InvalidateListingPhotos(ctx, listingID)

	return nil
}

// ListListingPhotos returns the listing's photos ordered by display
// order, resolving public URLs. Reads are not ownership-gated.
func (u Usecase) ListListingPhotos(ctx context.Context, listingID uuid.UUID) ([]ListingPhoto, error) {
	if photos, ok := u.cacheProvider.GetListingPhotos(ctx, listingID); ok {
		return photos, nil
	}

	photos, err := u.repo.ListListingPhotos(ctx, listingID)
	if err != nil {
		return nil, err
	}

	for i := range photos {
		photos[i].URL = u.fileStorageProvider.GetPublicURL(photos[i].StorageKey)
	}

	u.cacheProvider.SetListingPhotos(ctx, listingID, photos)
	return photos, nil
}

// RepairListingPhotos re-runs primary promotion and display-order
// compaction for a listing. Called by the background worker.
func (u Usecase) RepairListingPhotos(ctx context.Context, listingID uuid.UUID) error {
	if err := u.repo.ReconcileListingPhotos(ctx, listingID); err != nil {
		return err
	}
	u.cacheProvider.InvalidateListingPhotos(ctx, listingID)
	return nil
}

// extractColors finds the dominant color of the image for swatch
// rendering. Best effort: a decode failure only costs the swatch.
func extractColors(content []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		log.Printf("err_extractColors_decode: %v", err)
		return nil
	}
	c := dominantcolor.Find(img)
	b, err := json.Marshal(map[string]string{"dominant": dominantcolor.Hex(c)})
	if err != nil {
		return nil
	}
	return b
}
