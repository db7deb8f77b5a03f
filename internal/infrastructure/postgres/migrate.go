package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/config"
)

// RunMigrations applies every pending migration when enabled in configuration.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	return withMigrator(cfg, logger, func(m *migrate.Migrate, log *zap.Logger) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		version, dirty, _ := m.Version()
		log.Info("database migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	})
}

// RollbackMigrations reverts the given number of migrations.
func RollbackMigrations(cfg *config.Config, steps int, logger *zap.Logger) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	return withMigrator(cfg, logger, func(m *migrate.Migrate, log *zap.Logger) error {
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		log.Info("database migrations rolled back", zap.Int("steps", steps))
		return nil
	})
}

func withMigrator(cfg *config.Config, logger *zap.Logger, fn func(*migrate.Migrate, *zap.Logger) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return err
	}

	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(cfg.Migrations.Path))
	m, err := migrate.NewWithDatabaseInstance(sourceURL, cfg.Database.Name, driver)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m, logger.With(zap.String("source", cfg.Migrations.Path)))
}
