package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Direction selects which way migrations are applied.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// MigrationResult reports the schema version after a run.
type MigrationResult struct {
	Version  uint
	Dirty    bool
	NoChange bool
}

// RunMigrations applies migrations from migrationsPath (a directory, or a file:// URL).
// steps limits how many are applied; 0 means all for Up and exactly one for Down.
func RunMigrations(databaseURL, migrationsPath string, direction Direction, steps int) (*MigrationResult, error) {
	// A plain database/sql connection through the pgx stdlib driver, as migrate expects.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer migrationDB.Close()
	if err := migrationDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	sourceURL := migrationsPath
	if !strings.Contains(sourceURL, "://") {
		sourceURL = "file://" + sourceURL
	}
	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}

	switch {
	case direction == Up && steps <= 0:
		err = m.Up()
	case direction == Up:
		err = m.Steps(steps)
	case direction == Down && steps <= 0:
		err = m.Steps(-1)
	case direction == Down:
		err = m.Steps(-steps)
	default:
		return nil, fmt.Errorf("unknown migration direction %q", direction)
	}
	result := &MigrationResult{NoChange: errors.Is(err, migrate.ErrNoChange)}
	if err != nil && !result.NoChange {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("failed to read migration version: %w", verr)
	}
	result.Version, result.Dirty = version, dirty

	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		return nil, fmt.Errorf("migration close error: source=%v db=%v", sourceErr, dbErr)
	}
	return result, nil
}
