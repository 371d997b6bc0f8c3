// Package postgres adapts the ledger read/append port onto PostgreSQL via
// pgx (spec §6.3: inventory_ledger, indexed by (sku, timestamp),
// (changeType, timestamp), (operatorId, timestamp)), grounded on the
// teacher's Postgres connection-hub pattern but using pgxpool directly
// instead of database/sql.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// Connection is a singleton handle to one PostgreSQL pool, lazily connecting
// on first use.
type Connection struct {
	DSN  string
	pool *pgxpool.Pool
	log  mlog.Logger
}

// NewConnection builds a Connection; it does not dial until GetPool is
// called.
func NewConnection(dsn string, log mlog.Logger) *Connection {
	if log == nil {
		log = mlog.NopLogger{}
	}

	return &Connection{DSN: dsn, log: log}
}

// GetPool returns the underlying pool, connecting lazily if necessary.
func (c *Connection) GetPool(ctx context.Context) (*pgxpool.Pool, error) {
	if c.pool != nil {
		return c.pool, nil
	}

	c.log.Info("postgres: connecting")

	pool, err := pgxpool.New(ctx, c.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	c.pool = pool

	c.log.Info("postgres: connected")

	return c.pool, nil
}

// Close releases the pool.
func (c *Connection) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}
