// Package postgres stores game saves in PostgreSQL using pgx v5, with the
// schema managed by golang-migrate.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/emberfall/internal/config"
)

// connectTimeout bounds the initial ping in NewPool.
const connectTimeout = 10 * time.Second

// Pool is the connection pool shared by the save repository and health checks.
type Pool struct {
	pool *pgxpool.Pool
	dsn  string
}

// NewPool connects to the database described by cfg.
//
// Precondition: cfg must pass config validation.
// Postcondition: Returns a Pool that answered a ping, or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	dsn := cfg.DSN()
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	p := &Pool{pool: pool, dsn: dsn}
	if err := p.Health(ctx, connectTimeout); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return p, nil
}

// Health pings the database, failing after timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Migrate brings the schema up to date.
//
// Postcondition: returns the applied schema version on success.
func (p *Pool) Migrate() (uint, error) {
	mg, err := NewMigrator(p.dsn)
	if err != nil {
		return 0, err
	}
	defer mg.Close()
	if err := mg.Up(0); err != nil {
		return 0, fmt.Errorf("migrating schema: %w", err)
	}
	v, _, err := mg.Version()
	return v, err
}

// Saves returns a save repository backed by p.
func (p *Pool) Saves() *SaveRepository {
	return NewSaveRepository(p.pool)
}

// Close releases every connection. The pool is unusable afterwards.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB exposes the pgx pool for queries outside the save repository.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
