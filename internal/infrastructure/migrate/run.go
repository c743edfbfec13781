package migrate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"gorm.io/gorm"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// SchemaTable holds the applied migration version.
const SchemaTable = "affiliate_schema_migrations"

// ErrDirtySchema means a previous run stopped halfway and the schema needs a
// manual fix before the service can start.
var ErrDirtySchema = errors.New("affiliate schema is dirty")

// RunMigrations brings the affiliate schema up to the newest version found in
// dir and returns that version.
func RunMigrations(db *gorm.DB, dir string) (uint, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("affiliate db handle: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: SchemaTable})
	if err != nil {
		return 0, fmt.Errorf("affiliate migrations driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(sourceURL(dir), "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf("affiliate migrations source %s: %w", dir, err)
	}

	from, err := currentVersion(m)
	if err != nil {
		return 0, err
	}

	started := time.Now()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("affiliate migrations up from %d: %w", from, err)
	}

	to, err := currentVersion(m)
	if err != nil {
		return 0, err
	}
	if to == from {
		slog.Info("affiliate schema up to date", "version", to)
	} else {
		slog.Info("affiliate schema migrated", "from", from, "to", to, "took", time.Since(started).String())
	}
	return to, nil
}

func currentVersion(m *migrate.Migrate) (uint, error) {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("affiliate schema version: %w", err)
	case dirty:
		return 0, fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}
	return version, nil
}

func sourceURL(dir string) string {
	return "file://" + dir
}
