//go:build integration

// Integration tests for connection management. They require a live
// PostgreSQL instance reachable via INTEGRATION_TEST_DB_URL.
package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("INTEGRATION_TEST_DB_URL")
	if dbURL == "" {
		t.Skip("INTEGRATION_TEST_DB_URL not set; skipping integration test")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// scratchTable creates a throwaway real table. Temp tables are no good here:
// the pool hands verification queries to other sessions.
func scratchTable(t *testing.T, pool *pgxpool.Pool, name string) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx, fmt.Sprintf("CREATE TABLE %s (id INT)", name))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", name))
	})
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	scratchTable(t, pool, "tx_commit_test")

	err := postgres.WithTransaction(ctx, pool, func(tx pgx.Tx, txCtx context.Context) error {
		_, err := tx.Exec(txCtx, "INSERT INTO tx_commit_test VALUES (1)")
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM tx_commit_test").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	scratchTable(t, pool, "tx_rollback_test")

	err := postgres.WithTransaction(ctx, pool, func(tx pgx.Tx, txCtx context.Context) error {
		if _, err := tx.Exec(txCtx, "INSERT INTO tx_rollback_test VALUES (1)"); err != nil {
			return err
		}
		return fmt.Errorf("intentional error for rollback test")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intentional error")

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM tx_rollback_test").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	scratchTable(t, pool, "tx_panic_test")

	assert.Panics(t, func() {
		_ = postgres.WithTransaction(ctx, pool, func(tx pgx.Tx, txCtx context.Context) error {
			_, _ = tx.Exec(txCtx, "INSERT INTO tx_panic_test VALUES (1)")
			panic("intentional panic")
		})
	})

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM tx_panic_test").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestConnectionHealthCheck(t *testing.T) {
	pool := setupTestPool(t)

	conn := postgres.NewConnectionWithPool(pool, logging.NewNopLogger())
	assert.NoError(t, conn.HealthCheck(context.Background()))
	assert.NotNil(t, conn.Stat())
}
