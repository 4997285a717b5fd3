package postgres

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

// Config holds the PostgreSQL connection settings.
type Config struct {
	Host             string        `yaml:"host" env:"POSTGRES_HOST"`
	Port             int           `yaml:"port" env:"POSTGRES_PORT"`
	Database         string        `yaml:"database" env:"POSTGRES_DB"`
	Username         string        `yaml:"username" env:"POSTGRES_USER"`
	Password         string        `yaml:"password" env:"POSTGRES_PASSWORD"`
	SSLMode          string        `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE"`
	MaxConns         int           `yaml:"max_conns"`
	MinConns         int           `yaml:"min_conns"`
	ConnMaxLifetime  time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `yaml:"conn_max_idle_time"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
	LockTimeout      time.Duration `yaml:"lock_timeout"`
}

// DSN returns the connection URL. Statement and lock timeouts travel as
// runtime parameters so every session gets server-side limits even when the
// URL is handed to other tooling (migrations, psql).
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Database,
	}

	q := u.Query()
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	} else {
		q.Set("sslmode", "disable")
	}

	if c.StatementTimeout > 0 {
		q.Set("statement_timeout", fmt.Sprintf("%d", c.StatementTimeout.Milliseconds()))
	} else {
		q.Set("statement_timeout", "30000") // Default 30s
	}

	if c.LockTimeout > 0 {
		q.Set("lock_timeout", fmt.Sprintf("%d", c.LockTimeout.Milliseconds()))
	} else {
		q.Set("lock_timeout", "10000") // Default 10s
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// Connection manages the PostgreSQL connection pool.
type Connection struct {
	pool   *pgxpool.Pool
	cfg    Config
	logger logging.Logger
	once   sync.Once
}

// NewConnection establishes a pgx connection pool and verifies it with a ping.
func NewConnection(ctx context.Context, cfg Config, log logging.Logger) (*Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to parse database config")
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	} else {
		poolCfg.MaxConns = 25 // Default
	}

	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	} else {
		poolCfg.MinConns = 2 // Default
	}

	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	} else {
		poolCfg.MaxConnLifetime = 30 * time.Minute // Default
	}

	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	} else {
		poolCfg.MaxConnIdleTime = 5 * time.Minute // Default
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create connection pool")
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed")
	}

	log.Info("Connected to PostgreSQL database",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.Database),
		logging.Int("max_conns", int(poolCfg.MaxConns)),
	)

	return &Connection{
		pool:   pool,
		cfg:    cfg,
		logger: log,
	}, nil
}

// NewConnectionWithPool wraps an existing pool (for testing).
func NewConnectionWithPool(pool *pgxpool.Pool, log logging.Logger) *Connection {
	return &Connection{
		pool:   pool,
		logger: log,
	}
}

// Pool returns the underlying pgx pool.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// HealthCheck verifies the database connection status.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
	}

	// Check pool saturation
	stat := c.pool.Stat()
	if stat.MaxConns() > 0 {
		usage := float64(stat.AcquiredConns()) / float64(stat.MaxConns())
		if usage > 0.8 {
			c.logger.Warn("High database connection pool usage",
				logging.Int("acquired", int(stat.AcquiredConns())),
				logging.Int("max", int(stat.MaxConns())),
				logging.Float64("usage", usage),
			)
		}
	}

	return nil
}

// Stat returns pool statistics.
func (c *Connection) Stat() *pgxpool.Stat {
	return c.pool.Stat()
}

// Close closes the connection pool. Safe to call more than once.
func (c *Connection) Close() {
	c.once.Do(func() {
		c.pool.Close()
		c.logger.Info("Closed PostgreSQL connection pool")
	})
}

// RunMigrations applies all pending migrations against this connection's
// database.
func (c *Connection) RunMigrations(migrationsDir string) error {
	return RunMigrations(c.cfg.DSN(), migrationsDir)
}

// WithTransaction runs fn inside a transaction. The transaction commits when
// fn returns nil and rolls back on error or panic; the panic is re-raised
// after rollback.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx, ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx, ctx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit transaction")
	}
	return nil
}
