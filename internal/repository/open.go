package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	customerrors "github.com/axellelanca/happythoughts/internal/errors"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Migrator is implemented by repositories that own a schema.
type Migrator interface {
	Migrate() error
}

// Open connects to the configured store and returns the matching repository.
// The returned repository owns the connection; callers release it with Close.
func Open(ctx context.Context, driver, url string) (ThoughtRepository, error) {
	switch driver {
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(url), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database %s: %w", url, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
		}
		// SQLite allows a single writer; serialize on one connection instead of failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		log.Printf("[STORE] SQLite database opened at %s", url)
		return NewThoughtRepository(db), nil

	case DriverPostgres:
		db, err := gorm.Open(postgres.Open(url), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Println("[STORE] Postgres connection established")
		return NewThoughtRepository(db), nil

	case DriverRedis:
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("could not connect to redis (%s): %w", opts.Addr, err)
		}
		log.Printf("[STORE] Redis connection established at %s", opts.Addr)
		return NewRedisThoughtRepository(client), nil
	}
	return nil, fmt.Errorf("%w: %q", customerrors.ErrUnsupportedDriver, driver)
}

// OpenAndMigrate opens the store and applies the schema when the store has one.
func OpenAndMigrate(ctx context.Context, driver, url string) (ThoughtRepository, error) {
	repo, err := Open(ctx, driver, url)
	if err != nil {
		return nil, err
	}
	if m, ok := repo.(Migrator); ok {
		if err := m.Migrate(); err != nil {
			_ = repo.Close()
			return nil, err
		}
	}
	return repo, nil
}
