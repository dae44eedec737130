package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MhisterKhing6/shortly/internal/domain/reconciliation"
)

// RedisStatsCache caches office statistics in Redis. Every failure
// degrades to a cache miss so a Redis outage never breaks the stats
// endpoint.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStatsCache creates a new Redis backed stats cache
func NewRedisStatsCache(logger *slog.Logger, client *redis.Client, ttl time.Duration) StatsCache {
	return &RedisStatsCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func statsKey(officeID string, period reconciliation.Period) string {
	return fmt.Sprintf("recon_stats:%s:%s", officeID, period)
}

// Get retrieves cached stats for an office and period
func (c *RedisStatsCache) Get(ctx context.Context, officeID string, period reconciliation.Period) (*reconciliation.Stats, bool) {
	key := statsKey(officeID, period)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Stats cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var stats reconciliation.Stats
	if err := json.Unmarshal(payload, &stats); err != nil {
		c.logger.Warn("Dropping corrupt stats cache entry", "key", key, "error", err)
		return nil, false
	}
	return &stats, true
}

// Set stores stats for an office and period with the configured TTL
func (c *RedisStatsCache) Set(ctx context.Context, officeID string, period reconciliation.Period, stats *reconciliation.Stats) {
	key := statsKey(officeID, period)

	payload, err := json.Marshal(stats)
	if err != nil {
		c.logger.Warn("Failed to encode stats for caching", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Stats cache write failed", "key", key, "error", err)
	}
}
