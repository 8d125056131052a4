// Package votecache provides a Redis-backed cache for the vote tallies.
// Reads are served from Redis when a value is present; every cast
// invalidates the cached entries. All operations are best-effort: a Redis
// failure degrades to hitting the database, never to failing the request.
package votecache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/voteguard/voteguard/internal/logging"
	"github.com/voteguard/voteguard/internal/server/models"
)

const (
	resultsKey = "votes:results"
	namesKey   = "votes:names"

	// defaultTTL bounds staleness if an invalidation is ever lost.
	defaultTTL = 1 * time.Minute
)

type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

func New(rdb *redis.Client, logger logging.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: defaultTTL, logger: logger}
}

func (c *Cache) GetResults(ctx context.Context) ([]*models.VoteCount, bool) {
	data, err := c.rdb.Get(ctx, resultsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn(ctx, "tally cache read failed", "err", err)
		}
		return nil, false
	}

	var results []*models.VoteCount
	if err := json.Unmarshal(data, &results); err != nil {
		c.logger.Warn(ctx, "tally cache entry corrupt", "err", err)
		return nil, false
	}
	return results, true
}

func (c *Cache) SetResults(ctx context.Context, results []*models.VoteCount) {
	c.set(ctx, resultsKey, results)
}

func (c *Cache) GetNames(ctx context.Context) ([]string, bool) {
	data, err := c.rdb.Get(ctx, namesKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn(ctx, "tally cache read failed", "err", err)
		}
		return nil, false
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		c.logger.Warn(ctx, "tally cache entry corrupt", "err", err)
		return nil, false
	}
	return names, true
}

func (c *Cache) SetNames(ctx context.Context, names []string) {
	c.set(ctx, namesKey, names)
}

// Invalidate drops both cached entries. Called after every successful cast.
func (c *Cache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, resultsKey, namesKey).Err(); err != nil {
		c.logger.Warn(ctx, "tally cache invalidation failed", "err", err)
	}
}

func (c *Cache) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn(ctx, "tally cache encode failed", "err", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn(ctx, "tally cache write failed", "err", err)
	}
}
