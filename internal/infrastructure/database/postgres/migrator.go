// Package postgres provides the PostgreSQL connection pool, schema migration
// management via golang-migrate, and the repository implementations for the
// document and analysis aggregates. Migrations run automatically on startup
// and can be driven from the CLI for rollback and status checks.
package postgres

import (
	stderrors "errors"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // Postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // File source driver

	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

// sourceURL accepts either a plain directory path or a ready source URL, so
// callers can pass "migrations" as well as "file://migrations".
func sourceURL(migrationsPath string) string {
	if strings.Contains(migrationsPath, "://") {
		return migrationsPath
	}
	return "file://" + migrationsPath
}

func newMigrate(dbURL, migrationsPath string) (*migrate.Migrate, error) {
	m, err := migrate.New(sourceURL(migrationsPath), dbURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance")
	}
	return m, nil
}

// RunMigrations applies all pending migrations. Called during application
// startup to bring the schema up to date; no pending migrations is not an
// error.
func RunMigrations(dbURL, migrationsPath string) error {
	m, err := newMigrate(dbURL, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to run migrations")
	}
	return nil
}

// RollbackMigration rolls the schema back by the given number of steps.
// Intended for development and recovery, not the normal startup path.
func RollbackMigration(dbURL, migrationsPath string, steps int) error {
	if steps <= 0 {
		return errors.NewInvalidInput("rollback steps must be greater than 0, got %d", steps)
	}

	m, err := newMigrate(dbURL, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return errors.New(errors.ErrCodeDatabaseError, "no migrations to roll back")
		}
		return errors.Wrapf(err, errors.ErrCodeDatabaseError, "failed to roll back %d step(s)", steps)
	}
	return nil
}

// MigrationStatus reports the current schema version and whether the
// migration state is dirty. A dirty state means a previous migration failed
// partway and needs manual intervention (see ForceMigrationVersion).
func MigrationStatus(dbURL, migrationsPath string) (version uint, dirty bool, err error) {
	m, err := newMigrate(dbURL, migrationsPath)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			// Fresh database, nothing applied yet.
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get migration version")
	}
	return version, dirty, nil
}

// ResetDatabase rolls back every migration and re-applies them from scratch.
// Destructive: drops all tables. Development and test environments only.
func ResetDatabase(dbURL, migrationsPath string) error {
	m, err := newMigrate(dbURL, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to roll back all migrations")
	}
	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to re-apply migrations")
	}
	return nil
}

// ForceMigrationVersion sets the recorded schema version without running any
// migrations. Only for recovering from a dirty state; it can leave the schema
// inconsistent if pointed at the wrong version.
func ForceMigrationVersion(dbURL, migrationsPath string, version int) error {
	m, err := newMigrate(dbURL, migrationsPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Force(version); err != nil {
		return errors.Wrapf(err, errors.ErrCodeDatabaseError, "failed to force version %d", version)
	}
	return nil
}
