package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied means the acting user does not own the
	// listing a mutation targets, or no user is authenticated.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound means the listing or photo does not exist, or the
	// photo does not belong to the listing.
	ErrNotFound = errors.New("not found")

	// ErrStorageUploadFailed means the blob write failed; no photo
	// record was created.
	ErrStorageUploadFailed = errors.New("storage upload failed")

	// ErrStorageDeleteFailed means the blob delete failed; the photo
	// record is left untouched so it never references a lost blob.
	ErrStorageDeleteFailed = errors.New("storage delete failed")

	// ErrRecordPersistFailed means the photo record write failed after
	// the blob was already stored; a compensating blob delete has been
	// attempted.
	ErrRecordPersistFailed = errors.New("photo record persist failed")

	// ErrReconciliationIncomplete means the photo and its blob were
	// deleted, but re-promoting a primary and compacting display order
	// failed even after a retry. A background repair task has been
	// enqueued.
	ErrReconciliationIncomplete = errors.New("photo set reconciliation incomplete")
)

// ValidationError rejects an upload before any storage call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid photo: %s", e.Reason)
}
