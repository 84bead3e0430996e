package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"

	"github.com/harborlist/harborlist/internal/cache"
	"github.com/harborlist/harborlist/internal/config"
	"github.com/harborlist/harborlist/internal/database"
	"github.com/harborlist/harborlist/internal/filestorage"
	"github.com/harborlist/harborlist/internal/firebase"
	"github.com/harborlist/harborlist/internal/queue"
	"github.com/harborlist/harborlist/internal/usecase"
)

// Service is what the handlers consume; implemented by usecase.Usecase.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error

	VerifyIDToken(context.Context, string) (string, error)
	GetAuthUserByUID(context.Context, string) (usecase.AuthUser, error)

	CreateListing(context.Context, usecase.Listing) (usecase.Listing, error)
	GetListingByID(context.Context, uuid.UUID) (usecase.Listing, error)
	ListListings(context.Context, usecase.ListListingsOption) ([]usecase.Listing, int, error)

	UploadListingPhoto(context.Context, usecase.UploadListingPhotoInput) (usecase.ListingPhoto, error)
	SetPrimaryListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) error
	DeleteListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) error
	ListListingPhotos(context.Context, uuid.UUID) ([]usecase.ListingPhoto, error)
}

type Server struct {
	port int

	server    Service
	validator *validator.Validate
}

func NewServer() *http.Server {
	repo := database.New()

	fsp := filestorage.NewMinIOStorage(
		os.Getenv(config.ENV_KEY_MINIO_BUCKET),
		os.Getenv(config.ENV_KEY_MINIO_PUBLIC_PATH),
		os.Getenv(config.ENV_KEY_MINIO_ENDPOINT),
		os.Getenv(config.ENV_KEY_MINIO_ACCESS_KEY),
		os.Getenv(config.ENV_KEY_MINIO_SECRET_KEY),
	)

	fb := firebase.New()

	cp := cache.NewRedisCache(
		os.Getenv(config.ENV_KEY_REDIS_ADDR),
		os.Getenv(config.ENV_KEY_REDIS_PASSWORD),
	)

	qc := queue.NewClient(
		os.Getenv(config.ENV_KEY_REDIS_ADDR),
		os.Getenv(config.ENV_KEY_REDIS_PASSWORD),
	)

	sv := usecase.New(repo, fsp, fb, cp, qc)
	v := validator.New()

	port, _ := strconv.Atoi(os.Getenv(config.ENV_KEY_PORT))
	NewServer := &Server{
		port:      port,
		server:    sv,
		validator: v,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
