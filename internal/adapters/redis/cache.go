// Package redis adapts the cache ports onto go-redis (spec §9: "caching is
// peripheral" — this package is the one concrete choice of cache tier, kept
// behind the ports.CacheInvalidator / query.Cache interfaces).
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// Cache wraps a redis.Client, implementing both the command side's
// invalidation port and the query side's read-through cache port.
type Cache struct {
	client *redis.Client
	log    mlog.Logger
}

// New builds a Cache for the server at addr (host:port, e.g.
// "localhost:6379"), using password and database number db.
func New(addr, password string, db int, log mlog.Logger) *Cache {
	if log == nil {
		log = mlog.NopLogger{}
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	return &Cache{client: client, log: log}
}

// InvalidateStockLevel deletes the cached stock-level view for sku (spec
// §4.2 step 6: "signal invalidation for the mutated SKU on successful
// commit").
func (c *Cache) InvalidateStockLevel(ctx context.Context, sku string) error {
	key := "inventory:stock-level:" + sku

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "redis: invalidate %s", key)
	}

	return nil
}

// Get returns the cached bytes for key, or (nil, false, nil) on a cache
// miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, apperr.Wrap(apperr.KindRepositoryError, err, "redis: get %s", key)
	}

	return val, true, nil
}

// Set stores value under key with ttl.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "redis: set %s", key)
	}

	return nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
