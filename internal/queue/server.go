package queue

import (
	"fmt"
	"log"
	"os"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"

	"github.com/harborlist/harborlist/internal/cache"
	"github.com/harborlist/harborlist/internal/config"
	"github.com/harborlist/harborlist/internal/database"
	"github.com/harborlist/harborlist/internal/email"
	"github.com/harborlist/harborlist/internal/filestorage"
	"github.com/harborlist/harborlist/internal/firebase"
	"github.com/harborlist/harborlist/internal/queue/handlers"
	"github.com/harborlist/harborlist/internal/usecase"
)

// Server wraps asynq.Server for processing tasks
type Server struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
	repo        usecase.Repository
	cache       *cache.RedisCache
}

// Worker represents a worker application with all its dependencies
type Worker struct {
	server *Server
}

// NewWorker creates a fully configured worker with all dependencies
func NewWorker() (*Worker, error) {
	log.Println("Initializing worker dependencies...")

	repo := database.New()

	fb := firebase.New()
	mp := email.NewEmailProvider(
		os.Getenv(config.ENV_KEY_SMTP_HOST),
		os.Getenv(config.ENV_KEY_SMTP_USER),
		os.Getenv(config.ENV_KEY_SMTP_PASSWORD),
		os.Getenv(config.ENV_KEY_SMTP_PORT),
	)

	fsp := filestorage.NewMinIOStorage(
		os.Getenv(config.ENV_KEY_MINIO_BUCKET),
		os.Getenv(config.ENV_KEY_MINIO_PUBLIC_PATH),
		os.Getenv(config.ENV_KEY_MINIO_ENDPOINT),
		os.Getenv(config.ENV_KEY_MINIO_ACCESS_KEY),
		os.Getenv(config.ENV_KEY_MINIO_SECRET_KEY),
	)

	var (
		redisAddr     = os.Getenv(config.ENV_KEY_REDIS_ADDR)
		redisPassword = os.Getenv(config.ENV_KEY_REDIS_PASSWORD)
	)

	// Workers never enqueue, so the queue client stays a no-op. They
	// do share the API's photo-list cache: a repair must invalidate
	// whatever the API cached while the listing was inconsistent.
	cp := cache.NewRedisCache(redisAddr, redisPassword)

	uc := usecase.New(repo, fsp, fb, cp, nil).
		WithEmailProvider(mp)

	asynqServer := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	mux := asynq.NewServeMux()

	h := handlers.NewHandlers(uc)

	mux.HandleFunc(handlers.TypePhotoReconcile, h.HandlePhotoReconcile)

	log.Println("Worker registered handlers:")
	log.Printf("  - %s", handlers.TypePhotoReconcile)

	server := &Server{
		asynqServer: asynqServer,
		mux:         mux,
		repo:        repo,
		cache:       cp,
	}

	return &Worker{
		server: server,
	}, nil
}

// Start starts the worker server
func (w *Worker) Start() error {
	log.Println("Worker started successfully")
	return w.server.asynqServer.Start(w.server.mux)
}

// Stop stops the worker server gracefully
func (w *Worker) Stop() {
	log.Println("Stopping worker...")
	w.server.asynqServer.Shutdown()

	if err := w.server.cache.Close(); err != nil {
		fmt.Printf("Error closing cache: %v\n", err)
	}

	if err := w.server.repo.Close(); err != nil {
		fmt.Printf("Error closing database: %v\n", err)
	}
}
