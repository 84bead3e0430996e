package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/harborlist/harborlist/internal/config"
)

// implements usecase.Repository
type service struct {
	db *gorm.DB
}

var (
	database = os.Getenv(config.ENV_KEY_DB_DATABASE)
	password = os.Getenv(config.ENV_KEY_DB_PASSWORD)
	username = os.Getenv(config.ENV_KEY_DB_USER)
	port     = os.Getenv(config.ENV_KEY_DB_PORT)
	host     = os.Getenv(config.ENV_KEY_DB_HOST)
)

func New() *service {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", username, password, host, port, database)

	gormDB, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal(err)
	}

	db, err := gormDB.DB()
	if err != nil {
		log.Fatal(err)
	}

	if m, err := strconv.Atoi(
		os.Getenv(config.ENV_KEY_DB_MAX_OPEN_CONNECTIONS)); err == nil {
		db.SetMaxOpenConns(m)
	}

	// migrate the schema
	err = gormDB.AutoMigrate(
		User{},
		AuthUser{},
		Listing{},
		ListingPhoto{},
	)
	if err != nil {
		log.Fatal(err)
	}

	// The exactly-one-primary invariant is also enforced by the store:
	// at most one primary photo per listing can ever be committed.
	_, err = db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_one_primary_photo_per_listing
        ON listing_photos (listing_id)
        WHERE is_primary;
    `)
	if err != nil {
		log.Fatal(err)
	}

	return &service{db: gormDB}
}

// Health checks the health of the database connection by pinging the
// database. It returns a map with keys indicating various health
// statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	db, _ := s.db.DB()

	if err := db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	if dbStats.OpenConnections > 40 {
		stats["message"] = "The database is experiencing heavy load."
	}
	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	log.Printf("Disconnected from database: %s", database)
	return db.Close()
}
