//go:build integration

// Integration tests for migration management. They require a live PostgreSQL
// instance reachable via INTEGRATION_TEST_DB_URL and run against the real
// migration files at the repository root.
package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/database/postgres"
)

// testMigrationsPath points at the repository's migrations directory,
// relative to this package.
const testMigrationsPath = "file://../../../../migrations"

func getTestDBURL(t *testing.T) string {
	t.Helper()

	dbURL := os.Getenv("INTEGRATION_TEST_DB_URL")
	if dbURL == "" {
		t.Skip("INTEGRATION_TEST_DB_URL not set; skipping integration test")
	}
	return dbURL
}

func TestRunMigrations_AppliesAllMigrations(t *testing.T) {
	dbURL := getTestDBURL(t)

	require.NoError(t, postgres.ResetDatabase(dbURL, testMigrationsPath))
	require.NoError(t, postgres.RunMigrations(dbURL, testMigrationsPath))

	version, dirty, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)
	assert.False(t, dirty, "migration state should not be dirty")
	assert.Greater(t, version, uint(0))
}

func TestRunMigrations_NoChangeWhenAlreadyUpToDate(t *testing.T) {
	dbURL := getTestDBURL(t)

	require.NoError(t, postgres.RunMigrations(dbURL, testMigrationsPath))
	require.NoError(t, postgres.RunMigrations(dbURL, testMigrationsPath))
}

func TestRunMigrations_CreatesDomainTables(t *testing.T) {
	dbURL := getTestDBURL(t)

	require.NoError(t, postgres.RunMigrations(dbURL, testMigrationsPath))

	pool := setupTestPool(t)
	for _, table := range []string{"documents", "analyses"} {
		var exists bool
		err := pool.QueryRow(context.Background(),
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
			table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist after migrations", table)
	}
}

func TestRollbackMigration_RollsBackSpecifiedSteps(t *testing.T) {
	dbURL := getTestDBURL(t)

	require.NoError(t, postgres.ResetDatabase(dbURL, testMigrationsPath))

	initialVersion, _, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)

	require.NoError(t, postgres.RollbackMigration(dbURL, testMigrationsPath, 1))

	newVersion, dirty, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, initialVersion-1, newVersion)
}

func TestRollbackMigration_FailsWhenNothingToRollBack(t *testing.T) {
	dbURL := getTestDBURL(t)

	require.NoError(t, postgres.ResetDatabase(dbURL, testMigrationsPath))

	// More steps than migrations exist.
	err := postgres.RollbackMigration(dbURL, testMigrationsPath, 100)
	require.Error(t, err)
}

func TestMigrationStatus_ReturnsZeroOnFreshDatabase(t *testing.T) {
	dbURL := getTestDBURL(t)

	require.NoError(t, postgres.ResetDatabase(dbURL, testMigrationsPath))
	require.NoError(t, postgres.RollbackMigration(dbURL, testMigrationsPath, 2))

	version, dirty, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(0), version)
}

func TestResetDatabase_DropsAndRecreatesSchema(t *testing.T) {
	dbURL := getTestDBURL(t)

	require.NoError(t, postgres.RunMigrations(dbURL, testMigrationsPath))
	require.NoError(t, postgres.ResetDatabase(dbURL, testMigrationsPath))

	version, dirty, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Greater(t, version, uint(0))
}

func TestForceMigrationVersion_Recovers(t *testing.T) {
	dbURL := getTestDBURL(t)

	require.NoError(t, postgres.RunMigrations(dbURL, testMigrationsPath))

	version, _, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)

	require.NoError(t, postgres.ForceMigrationVersion(dbURL, testMigrationsPath, int(version)))

	after, dirty, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, version, after)
}
