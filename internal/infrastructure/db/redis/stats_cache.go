package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/expense-system/internal/core/domain"
)

const (
	statsKey        = "stats:dashboard"
	generationKey   = "stats:dashboard:gen"
	defaultStatsTTL = time.Minute
)

// setIfGeneration writes one hash field only while the generation counter
// still holds ARGV[1]. A missing counter reads as 0.
//
//	KEYS[1] generation key, KEYS[2] stats hash
//	ARGV[1] generation, ARGV[2] field, ARGV[3] value, ARGV[4] ttl in ms
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[2], ARGV[2], ARGV[3])
redis.call('PEXPIRE', KEYS[2], ARGV[4])
return 1
`)

// StatsCache stores dashboard stats in a single Redis hash so that one DEL
// drops every entry. Field format: <period>|<scope>
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a StatsCache wrapping the given Redis client. A
// non-positive ttl falls back to one minute.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Generation returns the invalidation counter, 0 before the first Invalidate.
func (c *StatsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stats cache generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached stats for period and scope, if present.
func (c *StatsCache) Get(ctx context.Context, period, scope string) (*domain.DashboardStats, bool, error) {
	raw, err := c.client.HGet(ctx, statsKey, field(period, scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("stats cache get: %w", err)
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false, fmt.Errorf("stats cache decode: %w", err)
	}
	return &stats, true, nil
}

// Set stores stats and refreshes the hash expiry, unless the generation has
// moved past gen.
func (c *StatsCache) Set(ctx context.Context, gen int64, period, scope string, stats *domain.DashboardStats) (bool, error) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return false, fmt.Errorf("stats cache encode: %w", err)
	}

	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{generationKey, statsKey},
		gen, field(period, scope), raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("stats cache set: %w", err)
	}
	return stored == 1, nil
}

// Invalidate advances the generation and drops every cached entry.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, generationKey)
	pipe.Del(ctx, statsKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("stats cache invalidate: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *StatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func field(period, scope string) string {
	return period + "|" + scope
}
