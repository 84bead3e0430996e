package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/harborlist/harborlist/internal/usecase"
)

const photoListTTL = time.Minute

// NewRedisCache creates a read-path cache for listing photo lists.
// Every miss or marshal failure just falls through to the database.
func NewRedisCache(addr, password string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisCache{client: client}
}

type RedisCache struct {
	client *redis.Client
}

func photoListKey(listingID uuid.UUID) string {
	return "listing_photos:" + listingID.String()
}

func (c *RedisCache) GetListingPhotos(ctx context.Context, listingID uuid.UUID) ([]usecase.ListingPhoto, bool) {
	b, err := c.client.Get(ctx, photoListKey(listingID)).Bytes()
	if err != nil {
		return nil, false
	}
	var photos []usecase.ListingPhoto
	if err := json.Unmarshal(b, &photos); err != nil {
		return nil, false
	}
	return photos, true
}

func (c *RedisCache) SetListingPhotos(ctx context.Context, listingID uuid.UUID, photos []usecase.ListingPhoto) {
	b, err := json.Marshal(photos)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, photoListKey(listingID), b, photoListTTL).Err(); err != nil {
		log.Printf("err_SetListingPhotos_cache: listing=%s: %v", listingID, err)
	}
}

func (c *RedisCache) InvalidateListingPhotos(ctx context.Context, listingID uuid.UUID) {
	if err := c.client.Del(ctx, photoListKey(listingID)).Err(); err != nil {
		log.Printf("err_InvalidateListingPhotos_cache: listing=%s: %v", listingID, err)
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
