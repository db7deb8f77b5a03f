// Package app opens the storage backend selected by configuration and hands back
// the repositories, health checks and closers the binaries wire together.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/config"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/monitor"
	pgInfra "github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/postgres"
	redisInfra "github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/redis"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository/postgres"
	redisRepo "github.com/Pazificateur69/CRM-NetStrategy-sub001/repository/redis"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository/sqlite"
)

// UserWriter provisions directory entries for operators.
type UserWriter interface {
	UpsertUser(ctx context.Context, user *domain.User) error
}

// Closer releases one backend resource.
type Closer struct {
	Name  string
	Close func() error
}

// Backend is an opened storage stack.
type Backend struct {
	Store   repository.Store
	Users   UserWriter
	Checks  []monitor.Check
	Closers []Closer
}

// Open connects the configured store, applying migrations or the embedded schema,
// and swaps in the Redis sequencer when requested.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	backend := &Backend{}

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		backend.usePostgres(pool, logger)
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := db.Init(); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.Storage.SQLitePath))
		backend.useSQLite(db)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Workflow.SequencerBackend == config.SequencerRedis {
		client, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		backend.useRedisSequencer(client)
		logger.Info("display order allocated through redis")
	}

	return backend, nil
}

func (b *Backend) usePostgres(pool *pgxpool.Pool, logger *zap.Logger) {
	store := postgres.NewStore(pool)
	b.Store = store
	b.Users = postgres.NewDirectory(pool)
	b.Checks = append(b.Checks, monitor.PostgresCheck(pool))
	b.Closers = append(b.Closers, Closer{Name: "postgres", Close: func() error {
		pgInfra.Close(pool, logger)
		return nil
	}})
}

func (b *Backend) useSQLite(db *sqlite.DB) {
	b.Store = sqlite.NewStore(db)
	b.Users = sqlite.NewDirectory(db)
	b.Checks = append(b.Checks, monitor.SQLCheck("sqlite", db.DB))
	b.Closers = append(b.Closers, Closer{Name: "sqlite", Close: db.Close})
}

func (b *Backend) useRedisSequencer(client *goRedis.Client) {
	b.Store.Sequence = redisRepo.NewSequencer(client, b.Store.MaxOrders)
	b.Checks = append(b.Checks, monitor.RedisCheck(client, true))
	b.Closers = append(b.Closers, Closer{Name: "redis", Close: client.Close})
}

// Close releases every resource in reverse order of acquisition.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.Closers) - 1; i >= 0; i-- {
		if err := b.Closers[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Closers[i].Name, err))
		}
	}
	b.Closers = nil
	return errors.Join(errs...)
}
