// Package rediscache provides a redis read-through cache in front of another
// storage.Storage. Cache failures never fail a request or a health check: they
// are logged and the wrapped storage is used instead.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"resolver/pkg/domain"
	"resolver/pkg/logger"
	"resolver/pkg/storage"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// notFoundMarker is cached for IDs the wrapped storage does not know.
const notFoundMarker = "-"

// Options configure key layout and expiry of cached entries.
type Options struct {
	// KeyPrefix is prepended to every item ID to form the redis key.
	KeyPrefix string
	// TTL is how long a found item stays cached.
	TTL time.Duration
	// NotFoundTTL is how long a miss of the wrapped storage stays cached.
	// Zero disables caching of misses.
	NotFoundTTL time.Duration
}

// Cache implements storage.Storage by consulting redis before the wrapped storage.
type Cache struct {
	client  redis.UniversalClient
	next    storage.Storage
	options Options
}

// Ensure Cache conforms to the storage.Storage interface at compile time.
var _ storage.Storage = (*Cache)(nil)

// New wraps next with a redis cache using client.
func New(client redis.UniversalClient, next storage.Storage, options Options) *Cache {
	return &Cache{
		client:  client,
		next:    next,
		options: options,
	}
}

func (c *Cache) key(id domain.ItemID) string {
	return c.options.KeyPrefix + string(id)
}

// ItemByID returns the cached item when present, otherwise reads it from the
// wrapped storage and caches the outcome.
func (c *Cache) ItemByID(ctx context.Context, id domain.ItemID) (*domain.Item, error) {
	cached, err := c.client.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
		if string(cached) == notFoundMarker {
			return nil, nil //nolint: nilnil
		}

		var item domain.Item
		if err := json.Unmarshal(cached, &item); err == nil {
			return &item, nil
		}
		logger.Warn(ctx, "dropping undecodable cache entry", zap.String("id", string(id)))
	case !errors.Is(err, redis.Nil):
		logger.Warn(ctx, "could not read item from cache", zap.String("id", string(id)), zap.Error(err))
	}

	item, err := c.next.ItemByID(ctx, id)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	if item == nil {
		if c.options.NotFoundTTL > 0 {
			c.set(ctx, id, []byte(notFoundMarker), c.options.NotFoundTTL)
		}

		return nil, nil //nolint: nilnil
	}
	c.store(ctx, item)

	return item, nil
}

// UpsertItem writes through to the wrapped storage and refreshes the cache
// with the stored row.
func (c *Cache) UpsertItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	stored, err := c.next.UpsertItem(ctx, item)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	c.store(ctx, stored)

	return stored, nil
}

// Ping reports the health of the wrapped storage. An unreachable redis is
// logged but not reported, since reads fall back to the wrapped storage.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		logger.Warn(ctx, "could not ping redis", zap.Error(err))
	}

	return c.next.Ping(ctx) //nolint: wrapcheck
}

// Close closes the redis client and the wrapped storage.
func (c *Cache) Close() error {
	return errors.Join(c.client.Close(), c.next.Close())
}

func (c *Cache) store(ctx context.Context, item *domain.Item) {
	b, err := json.Marshal(item)
	if err != nil {
		logger.Warn(ctx, "could not encode item for cache", zap.String("id", string(item.ID)), zap.Error(err))

		return
	}
	c.set(ctx, item.ID, b, c.options.TTL)
}

func (c *Cache) set(ctx context.Context, id domain.ItemID, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.key(id), value, ttl).Err(); err != nil {
		logger.Warn(ctx, "could not write item to cache", zap.String("id", string(id)), zap.Error(err))
	}
}
