package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlist/harborlist/internal/config"
)

// jpegBytes sniffs as image/jpeg via http.DetectContentType.
func jpegBytes(size int) []byte {
	b := bytes.Repeat([]byte{0x42}, size)
	copy(b, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return b
}

// pngBytes sniffs as image/png.
func pngBytes(size int) []byte {
	b := bytes.Repeat([]byte{0x42}, size)
	copy(b, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'})
	return b
}

type fakeRepo struct {
	listings map[uuid.UUID]Listing
	photos   map[uuid.UUID]ListingPhoto

	failCreatePhoto  error
	failRemovePhoto  error
	failReconcile    int // remaining ReconcileListingPhotos calls to fail
	reconcileCalls   int
	createPhotoCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		listings: map[uuid.UUID]Listing{},
		photos:   map[uuid.UUID]ListingPhoto{},
	}
}

func (r *fakeRepo) Health() map[string]string { return map[string]string{"status": "up"} }
func (r *fakeRepo) Close() error              { return nil }

func (r *fakeRepo) GetAuthUserByUID(context.Context, string) (AuthUser, error) {
	return AuthUser{}, ErrNotFound
}

func (r *fakeRepo) CreateListing(_ context.Context, l Listing) (Listing, error) {
	l.ID = uuid.New()
	r.listings[l.ID] = l
	return l, nil
}

func (r *fakeRepo) GetListingByID(_ context.Context, id uuid.UUID) (Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return Listing{}, ErrNotFound
	}
	return l, nil
}

func (r *fakeRepo) ListListings(context.Context, ListListingsOption) ([]Listing, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) photosOf(listingID uuid.UUID) []ListingPhoto {
	var out []ListingPhoto
	for _, p := range r.photos {
		if p.ListingID == listingID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *fakeRepo) CreateListingPhoto(_ context.Context, p ListingPhoto) (ListingPhoto, error) {
	r.createPhotoCalls++
	if r.failCreatePhoto != nil {
		return ListingPhoto{}, r.failCreatePhoto
	}
	count := len(r.photosOf(p.ListingID))
	p.ID = uuid.New()
	p.IsPrimary = count == 0
	p.DisplayOrder = count
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.photos[p.ID] = p
	return p, nil
}

func (r *fakeRepo) GetListingPhoto(_ context.Context, listingID, photoID uuid.UUID) (ListingPhoto, error) {
	p, ok := r.photos[photoID]
	if !ok || p.ListingID != listingID {
		return ListingPhoto{}, ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) ListListingPhotos(_ context.Context, listingID uuid.UUID) ([]ListingPhoto, error) {
	return r.photosOf(listingID), nil
}

func (r *fakeRepo) SetPrimaryListingPhoto(_ context.Context, listingID, photoID uuid.UUID) error {
	target, ok := r.photos[photoID]
	if !ok || target.ListingID != listingID {
		return ErrNotFound
	}
	for id, p := range r.photos {
		if p.ListingID == listingID {
			p.IsPrimary = id == photoID
			r.photos[id] = p
		}
	}
	return nil
}

func (r *fakeRepo) RemoveListingPhoto(_ context.Context, listingID, photoID uuid.UUID) error {
	if r.failRemovePhoto != nil {
		return r.failRemovePhoto
	}
	p, ok := r.photos[photoID]
	if !ok || p.ListingID != listingID {
		return ErrNotFound
	}
	delete(r.photos, photoID)
	return nil
}

func (r *fakeRepo) ReconcileListingPhotos(_ context.Context, listingID uuid.UUID) error {
	r.reconcileCalls++
	if r.failReconcile > 0 {
		r.failReconcile--
		return fmt.Errorf("reconcile unavailable")
	}
	photos := r.photosOf(listingID)
	if len(photos) == 0 {
		return nil
	}
	hasPrimary := false
	for _, p := range photos {
		if p.IsPrimary {
			hasPrimary = true
		}
	}
	for i, p := range photos {
		if i == 0 && !hasPrimary {
			p.IsPrimary = true
		}
		p.DisplayOrder = i
		r.photos[p.ID] = p
	}
	return nil
}

type fakeStorage struct {
	objects     map[string][]byte
	putCalls    int
	deleteCalls int
	failPut     error
	failDelete  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) UploadFile(_ context.Context, path string, data []byte, _ string) error {
	f.putCalls++
	if f.failPut != nil {
		return f.failPut
	}
	f.objects[path] = data
	return nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, path string) error {
	f.deleteCalls++
	if f.failDelete != nil {
		return f.failDelete
	}
	delete(f.objects, path)
	return nil
}

func (f *fakeStorage) GetPublicURL(path string) string {
	return "https://cdn.harborlist.test/" + path
}

type fakeQueue struct {
	enqueued []uuid.UUID
}

func (q *fakeQueue) EnqueueReconcilePhotos(_ context.Context, listingID uuid.UUID) error {
	q.enqueued = append(q.enqueued, listingID)
	return nil
}

// recordingCache notes how many primaries the listing had at the moment
// of each invalidation, so tests can pin invalidations relative to
// promotion.
type recordingCache struct {
	NopCache
	repo          *fakeRepo
	listing       uuid.UUID
	primaryCounts []int
}

func (c *recordingCache) InvalidateListingPhotos(context.Context, uuid.UUID) {
	n := 0
	for _, p := range c.repo.photosOf(c.listing) {
		if p.IsPrimary {
			n++
		}
	}
	c.primaryCounts = append(c.primaryCounts, n)
}

type fixture struct {
	uc      Usecase
	repo    *fakeRepo
	storage *fakeStorage
	queue   *fakeQueue
	owner   uuid.UUID
	listing uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeRepo()
	storage := newFakeStorage()
	q := &fakeQueue{}
	uc := New(repo, storage, nil, NopCache{}, q)

	owner := uuid.New()
	listingID := uuid.New()
	repo.listings[listingID] = Listing{ID: listingID, OwnerID: owner, Title: "1998 Catalina 320"}

	return &fixture{
		uc:      uc,
		repo:    repo,
		storage: storage,
		queue:   q,
		owner:   owner,
		listing: listingID,
	}
}

func (f *fixture) ownerCtx() context.Context {
	return context.WithValue(context.Background(), config.CTX_KEY_USER_ID, f.owner)
}

func (f *fixture) userCtx(id uuid.UUID) context.Context {
	return context.WithValue(context.Background(), config.CTX_KEY_USER_ID, id)
}

func (f *fixture) upload(t *testing.T, name string) ListingPhoto {
	t.Helper()
	photo, err := f.uc.UploadListingPhoto(f.ownerCtx(), UploadListingPhotoInput{
		ListingID: f.listing,
		FileName:  name,
		MimeType:  "image/jpeg",
		Content:   jpegBytes(1024),
	})
	require.NoError(t, err)
	return photo
}

func (f *fixture) assertExactlyOnePrimary(t *testing.T) {
	t.Helper()
	photos, err := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)
	if len(photos) == 0 {
		return
	}
	primaries := 0
	for _, p := range photos {
		if p.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries, "expected exactly one primary photo")
}

func (f *fixture) assertDenseOrder(t *testing.T) {
	t.Helper()
	photos, err := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)
	for i, p := range photos {
		assert.Equal(t, i, p.DisplayOrder)
	}
}

func TestUploadListingPhoto(t *testing.T) {
	f := newFixture(t)

	a := f.upload(t, "bow.jpg")
	assert.True(t, a.IsPrimary)
	assert.Equal(t, 0, a.DisplayOrder)
	assert.Contains(t, a.StorageKey, "listings/"+f.listing.String()+"/")
	assert.Equal(t, "https://cdn.harborlist.test/"+a.StorageKey, a.URL)

	b := f.upload(t, "stern.jpg")
	assert.False(t, b.IsPrimary)
	assert.Equal(t, 1, b.DisplayOrder)

	assert.Equal(t, 2, f.storage.putCalls)
	assert.Len(t, f.storage.objects, 2)
	f.assertExactlyOnePrimary(t)
}

func TestUploadListingPhoto_PNG(t *testing.T) {
	f := newFixture(t)

	photo, err := f.uc.UploadListingPhoto(f.ownerCtx(), UploadListingPhotoInput{
		ListingID: f.listing,
		FileName:  "bow.png",
		MimeType:  "image/png",
		Content:   pngBytes(512),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.MimeType)
	assert.True(t, photo.IsPrimary)
}

func TestUploadListingPhoto_NonOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.UploadListingPhoto(f.userCtx(uuid.New()), UploadListingPhotoInput{
		ListingID: f.listing,
		FileName:  "bow.jpg",
		MimeType:  "image/jpeg",
		Content:   jpegBytes(1024),
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, f.storage.putCalls)
	assert.Zero(t, f.repo.createPhotoCalls)
}

func TestUploadListingPhoto_NoIdentity(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.UploadListingPhoto(context.Background(), UploadListingPhotoInput{
		ListingID: f.listing,
		FileName:  "bow.jpg",
		MimeType:  "image/jpeg",
		Content:   jpegBytes(1024),
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, f.storage.putCalls)
}

func TestUploadListingPhoto_ValidationBeforeStorage(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		content  []byte
	}{
		{"disallowed type", "text/plain", []byte("not an image at all, honestly")},
		{"mismatched type", "image/png", jpegBytes(1024)},
		{"empty file", "image/jpeg", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.uc.UploadListingPhoto(f.ownerCtx(), UploadListingPhotoInput{
				ListingID: f.listing,
				FileName:  "bow.jpg",
				MimeType:  tt.mimeType,
				Content:   tt.content,
			})
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Zero(t, f.storage.putCalls, "no storage call may happen for a rejected upload")
			assert.Zero(t, f.repo.createPhotoCalls)
		})
	}
}

func TestUploadListingPhoto_SizeCeiling(t *testing.T) {
	t.Setenv(config.ENV_KEY_MAX_PHOTO_SIZE_BYTES, "64")

	f := newFixture(t)

	_, err := f.uc.UploadListingPhoto(f.ownerCtx(), UploadListingPhotoInput{
		ListingID: f.listing,
		FileName:  "bow.jpg",
		MimeType:  "image/jpeg",
		Content:   jpegBytes(65),
	})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Zero(t, f.storage.putCalls)
}

func TestUploadListingPhoto_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.storage.failPut = fmt.Errorf("connection reset")

	_, err := f.uc.UploadListingPhoto(f.ownerCtx(), UploadListingPhotoInput{
		ListingID: f.listing,
		FileName:  "bow.jpg",
		MimeType:  "image/jpeg",
		Content:   jpegBytes(1024),
	})
	assert.ErrorIs(t, err, ErrStorageUploadFailed)
	assert.Zero(t, f.repo.createPhotoCalls, "no record may be created when the blob write failed")
}

func TestUploadListingPhoto_RecordFailureCompensates(t *testing.T) {
	f := newFixture(t)
	f.repo.failCreatePhoto = fmt.Errorf("insert timeout")

	_, err := f.uc.UploadListingPhoto(f.ownerCtx(), UploadListingPhotoInput{
		ListingID: f.listing,
		FileName:  "bow.jpg",
		MimeType:  "image/jpeg",
		Content:   jpegBytes(1024),
	})
	assert.ErrorIs(t, err, ErrRecordPersistFailed)
	assert.Equal(t, 1, f.storage.deleteCalls, "orphaned blob must be deleted again")
	assert.Empty(t, f.storage.objects)
}

func TestUploadListingPhoto_CompensationFailureStillSurfacesPersistError(t *testing.T) {
	f := newFixture(t)
	f.repo.failCreatePhoto = fmt.Errorf("insert timeout")
	f.storage.failDelete = fmt.Errorf("delete unavailable")

	_, err := f.uc.UploadListingPhoto(f.ownerCtx(), UploadListingPhotoInput{
		ListingID: f.listing,
		FileName:  "bow.jpg",
		MimeType:  "image/jpeg",
		Content:   jpegBytes(1024),
	})
	assert.ErrorIs(t, err, ErrRecordPersistFailed)
	assert.NotErrorIs(t, err, ErrStorageDeleteFailed)
}

func TestSetPrimaryListingPhoto(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")
	b := f.upload(t, "stern.jpg")

	require.NoError(t, f.uc.SetPrimaryListingPhoto(f.ownerCtx(), f.listing, b.ID))

	photos, err := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.False(t, photos[0].IsPrimary)
	assert.True(t, photos[1].IsPrimary)
	assert.Equal(t, a.ID, photos[0].ID)
	f.assertExactlyOnePrimary(t)
}

func TestSetPrimaryListingPhoto_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "bow.jpg")
	b := f.upload(t, "stern.jpg")

	require.NoError(t, f.uc.SetPrimaryListingPhoto(f.ownerCtx(), f.listing, b.ID))
	first, err := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)

	require.NoError(t, f.uc.SetPrimaryListingPhoto(f.ownerCtx(), f.listing, b.ID))
	second, err := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSetPrimaryListingPhoto_NotFound(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "bow.jpg")

	err := f.uc.SetPrimaryListingPhoto(f.ownerCtx(), f.listing, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	f.assertExactlyOnePrimary(t)
}

func TestSetPrimaryListingPhoto_WrongListing(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")

	otherID := uuid.New()
	f.repo.listings[otherID] = Listing{ID: otherID, OwnerID: f.owner}

	err := f.uc.SetPrimaryListingPhoto(f.ownerCtx(), otherID, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetPrimaryListingPhoto_NonOwner(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "bow.jpg")
	b := f.upload(t, "stern.jpg")

	err := f.uc.SetPrimaryListingPhoto(f.userCtx(uuid.New()), f.listing, b.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	photos, _ := f.uc.ListListingPhotos(context.Background(), f.listing)
	assert.True(t, photos[0].IsPrimary, "state must not change for a denied caller")
}

func TestDeleteListingPhoto_PromotesLowestOrder(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")
	b := f.upload(t, "stern.jpg")
	c := f.upload(t, "cabin.jpg")

	// a is primary; delete it and the lowest remaining order wins
	require.NoError(t, f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, a.ID))

	photos, err := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, b.ID, photos[0].ID)
	assert.True(t, photos[0].IsPrimary)
	assert.Equal(t, c.ID, photos[1].ID)
	assert.False(t, photos[1].IsPrimary)
	f.assertDenseOrder(t)
}

func TestDeleteListingPhoto_NonPrimaryKeepsPrimary(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")
	b := f.upload(t, "stern.jpg")
	c := f.upload(t, "cabin.jpg")

	require.NoError(t, f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, b.ID))

	photos, err := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, a.ID, photos[0].ID)
	assert.True(t, photos[0].IsPrimary)
	assert.Equal(t, c.ID, photos[1].ID)
	f.assertDenseOrder(t)
}

func TestDeleteListingPhoto_LastPhoto(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")

	require.NoError(t, f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, a.ID))

	photos, err := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)
	assert.Empty(t, photos)
	assert.Empty(t, f.storage.objects)
}

func TestDeleteListingPhoto_StorageFailureFailClosed(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")
	f.storage.failDelete = fmt.Errorf("transient outage")

	err := f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, a.ID)
	assert.ErrorIs(t, err, ErrStorageDeleteFailed)

	// the record survives and is still retrievable
	photos, lerr := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, lerr)
	require.Len(t, photos, 1)
	assert.Equal(t, a.ID, photos[0].ID)
	assert.Len(t, f.storage.objects, 1)
}

func TestDeleteListingPhoto_RecordRemoveFailure(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")
	f.repo.failRemovePhoto = fmt.Errorf("delete timeout")

	err := f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, a.ID)
	assert.ErrorIs(t, err, ErrRecordPersistFailed)

	// blob already gone, record orphaned; surfaced, not masked
	assert.Empty(t, f.storage.objects)
	photos, _ := f.uc.ListListingPhotos(context.Background(), f.listing)
	assert.Len(t, photos, 1)
}

func TestDeleteListingPhoto_NonOwner(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")

	err := f.uc.DeleteListingPhoto(f.userCtx(uuid.New()), f.listing, a.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, f.storage.deleteCalls)

	photos, _ := f.uc.ListListingPhotos(context.Background(), f.listing)
	assert.Len(t, photos, 1)
}

func TestDeleteListingPhoto_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.storage.deleteCalls)
}

func TestDeleteListingPhoto_ReconcileRetrySucceeds(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")
	f.upload(t, "stern.jpg")

	f.repo.failReconcile = 1 // first attempt fails, retry succeeds

	require.NoError(t, f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, a.ID))
	assert.Empty(t, f.queue.enqueued)
	f.assertExactlyOnePrimary(t)
	f.assertDenseOrder(t)
}

func TestDeleteListingPhoto_ReconciliationIncomplete(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")
	f.upload(t, "stern.jpg")

	f.repo.failReconcile = 2 // both attempts fail

	err := f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, a.ID)
	assert.ErrorIs(t, err, ErrReconciliationIncomplete)

	// the deletion itself stuck
	photos, lerr := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, lerr)
	assert.Len(t, photos, 1)

	// a repair task was queued, and running it restores the invariant
	require.Equal(t, []uuid.UUID{f.listing}, f.queue.enqueued)
	require.NoError(t, f.uc.RepairListingPhotos(context.Background(), f.listing))
	f.assertExactlyOnePrimary(t)
	f.assertDenseOrder(t)
}

func TestDeleteListingPhoto_WrongListing(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")

	otherID := uuid.New()
	f.repo.listings[otherID] = Listing{ID: otherID, OwnerID: f.owner}

	err := f.uc.DeleteListingPhoto(f.ownerCtx(), otherID, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.storage.deleteCalls)

	photos, _ := f.uc.ListListingPhotos(context.Background(), f.listing)
	assert.Len(t, photos, 1)
}

func TestDeleteListingPhoto_CacheClearedAfterPromotion(t *testing.T) {
	f := newFixture(t)
	rc := &recordingCache{repo: f.repo, listing: f.listing}
	f.uc = New(f.repo, f.storage, nil, rc, f.queue)

	a := f.upload(t, "bow.jpg")
	f.upload(t, "stern.jpg")

	rc.primaryCounts = nil
	require.NoError(t, f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, a.ID))

	// the final invalidation must land after promotion, so a read in
	// the deletion window can never pin a zero-primary list
	require.NotEmpty(t, rc.primaryCounts)
	assert.Equal(t, 1, rc.primaryCounts[len(rc.primaryCounts)-1])
}

func TestRepairListingPhotos_InvalidatesCache(t *testing.T) {
	f := newFixture(t)
	rc := &recordingCache{repo: f.repo, listing: f.listing}
	f.uc = New(f.repo, f.storage, nil, rc, f.queue)

	a := f.upload(t, "bow.jpg")
	f.upload(t, "stern.jpg")

	f.repo.failReconcile = 2
	err := f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, a.ID)
	require.ErrorIs(t, err, ErrReconciliationIncomplete)

	rc.primaryCounts = nil
	require.NoError(t, f.uc.RepairListingPhotos(context.Background(), f.listing))

	require.NotEmpty(t, rc.primaryCounts)
	assert.Equal(t, 1, rc.primaryCounts[len(rc.primaryCounts)-1])
	f.assertExactlyOnePrimary(t)
	f.assertDenseOrder(t)
}

func TestListListingPhotos_Order(t *testing.T) {
	f := newFixture(t)
	a := f.upload(t, "bow.jpg")
	b := f.upload(t, "stern.jpg")
	c := f.upload(t, "cabin.jpg")

	photos, err := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)
	require.Len(t, photos, 3)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, []uuid.UUID{photos[0].ID, photos[1].ID, photos[2].ID})
	for _, p := range photos {
		assert.NotEmpty(t, p.URL)
	}
}

// Mirrors the end-to-end sequence from the product flow: first upload is
// primary, a second upload is not, the primary can move, and deleting
// the primary hands the designation back.
func TestPhotoLifecycleScenario(t *testing.T) {
	f := newFixture(t)

	a, err := f.uc.UploadListingPhoto(f.ownerCtx(), UploadListingPhotoInput{
		ListingID: f.listing,
		FileName:  "hull.jpg",
		MimeType:  "image/jpeg",
		Content:   jpegBytes(2 << 20),
	})
	require.NoError(t, err)
	assert.True(t, a.IsPrimary)
	assert.Equal(t, 0, a.DisplayOrder)

	b := f.upload(t, "deck.jpg")
	assert.False(t, b.IsPrimary)
	assert.Equal(t, 1, b.DisplayOrder)

	require.NoError(t, f.uc.SetPrimaryListingPhoto(f.ownerCtx(), f.listing, b.ID))
	photos, err := f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)
	assert.False(t, photos[0].IsPrimary)
	assert.True(t, photos[1].IsPrimary)

	require.NoError(t, f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, b.ID))
	photos, err = f.uc.ListListingPhotos(context.Background(), f.listing)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, a.ID, photos[0].ID)
	assert.True(t, photos[0].IsPrimary)
	assert.Equal(t, 0, photos[0].DisplayOrder)
}

// Exactly one primary must hold after any sequence of mutations.
func TestPrimaryInvariantAcrossOperations(t *testing.T) {
	f := newFixture(t)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		p := f.upload(t, fmt.Sprintf("photo-%d.jpg", i))
		ids = append(ids, p.ID)
		f.assertExactlyOnePrimary(t)
	}

	require.NoError(t, f.uc.SetPrimaryListingPhoto(f.ownerCtx(), f.listing, ids[3]))
	f.assertExactlyOnePrimary(t)

	require.NoError(t, f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, ids[3]))
	f.assertExactlyOnePrimary(t)
	f.assertDenseOrder(t)

	require.NoError(t, f.uc.DeleteListingPhoto(f.ownerCtx(), f.listing, ids[0]))
	f.assertExactlyOnePrimary(t)
	f.assertDenseOrder(t)

	require.NoError(t, f.uc.SetPrimaryListingPhoto(f.ownerCtx(), f.listing, ids[4]))
	f.assertExactlyOnePrimary(t)
}

func TestStorageKeyForPhoto(t *testing.T) {
	listingID := uuid.New()

	k1 := storageKeyForPhoto(listingID, "bow shot.JPG")
	time.Sleep(time.Millisecond)
	k2 := storageKeyForPhoto(listingID, "bow shot.JPG")

	assert.Contains(t, k1, "listings/"+listingID.String()+"/")
	assert.True(t, len(k1) > 0 && k1[len(k1)-4:] == ".JPG")
	assert.NotEqual(t, k1, k2, "keys must be unique per upload")
}

func TestErrorsDoNotOverlap(t *testing.T) {
	err := fmt.Errorf("%w: boom", ErrStorageUploadFailed)
	assert.ErrorIs(t, err, ErrStorageUploadFailed)
	assert.False(t, errors.Is(err, ErrStorageDeleteFailed))
	assert.False(t, errors.Is(err, ErrRecordPersistFailed))
}
