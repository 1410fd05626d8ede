package db

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"equiprent-backend/internal/config"
	"equiprent-backend/internal/logger"
)

// Migrate applies all pending migrations from migrationsPath. A database
// already at the latest version is not an error.
func Migrate(migrationsPath string, cfg *config.Config) error {
	m, err := migrate.New(migrationsPath, cfg.GetDatabaseConnectionString())
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Database schema already up to date")
			return nil
		}
		return err
	}
	logger.Info("Database migrations applied")
	return nil
}
