package handlers

import "github.com/harborlist/harborlist/internal/usecase"

// TypePhotoReconcile repairs a listing's photo set after a deletion
// whose follow-up promotion/compaction failed.
const TypePhotoReconcile = "photo:reconcile"

type PhotoReconcilePayload struct {
	ListingID string `json:"listing_id"`
}

type Handlers struct {
	usecase usecase.Usecase
}

func NewHandlers(uc usecase.Usecase) *Handlers {
	return &Handlers{
		usecase: uc,
	}
}
