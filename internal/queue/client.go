package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/harborlist/harborlist/internal/queue/handlers"
)

// Client wraps asynq.Client for enqueuing tasks
type Client struct {
	client *asynq.Client
}

// NewClient creates a new queue client
func NewClient(redisAddr string, redisPassword string) *Client {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
	})

	return &Client{
		client: client,
	}
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueReconcilePhotos enqueues a repair task for the listing's photo
// set. Retries are handled by the worker.
func (c *Client) EnqueueReconcilePhotos(ctx context.Context, listingID uuid.UUID) error {
	payload, err := json.Marshal(handlers.PhotoReconcilePayload{
		ListingID: listingID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(handlers.TypePhotoReconcile, payload, asynq.MaxRetry(5))

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	fmt.Printf("[Queue] Enqueued task: id=%s queue=%s\n", info.ID, info.Queue)
	return nil
}
