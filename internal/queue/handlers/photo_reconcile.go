package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// HandlePhotoReconcile re-runs primary promotion and display-order
// compaction for a listing whose deletion left the photo set
// inconsistent. On the final failed attempt the operator is alerted,
// since no further automatic repair will happen.
func (h *Handlers) HandlePhotoReconcile(ctx context.Context, task *asynq.Task) error {
	var p PhotoReconcilePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	listingID, err := uuid.Parse(p.ListingID)
	if err != nil {
		return fmt.Errorf("invalid listing id %q: %v: %w", p.ListingID, err, asynq.SkipRetry)
	}

	log.Printf("Reconciling photo set for listing %s...", listingID)

	if err := h.usecase.RepairListingPhotos(ctx, listingID); err != nil {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		if retried >= maxRetry {
			if merr := h.usecase.NotifyPhotoRepairFailure(ctx, listingID, err); merr != nil {
				log.Printf("Error alerting operator for listing %s: %v", listingID, merr)
			}
		}
		return err
	}

	log.Printf("Photo set for listing %s reconciled", listingID)
	return nil
}
