package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/venueguard/internal/observability/metrics"
	"github.com/aryan0dhankhar/venueguard/pkg/cache"
)

const (
	statsKeyPrefix = "dashboard:stats:"
	statsGenKey    = "dashboard:stats-gen"
)

func statsKey(gen int64, actorID string) string {
	return statsKeyPrefix + strconv.FormatInt(gen, 10) + ":" + actorID
}

// RedisStatsCache stores dashboard stats as JSON in Redis
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStatsCache creates a Redis-backed stats cache
func NewRedisStatsCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStatsCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStatsCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisStatsCache) generation(ctx context.Context) (int64, error) {
	raw, err := c.client.Get(ctx, statsGenKey)
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return -1, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *RedisStatsCache) Get(ctx context.Context, actorID string) (*domain.DashboardStats, int64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("stats cache read failed", slog.String("error", err.Error()))
		metrics.ObserveStatsCache(false)
		return nil, -1, false
	}

	raw, err := c.client.Get(ctx, statsKey(gen, actorID))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("stats cache read failed", slog.String("error", err.Error()))
		}
		metrics.ObserveStatsCache(false)
		return nil, gen, false
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		c.logger.Warn("discarding malformed stats cache entry", slog.String("actor_id", actorID))
		metrics.ObserveStatsCache(false)
		return nil, gen, false
	}

	metrics.ObserveStatsCache(true)
	return &stats, gen, true
}

// Set writes under the generation the stats were counted in. A write that
// races an invalidation lands on a key no reader asks for and expires with
// the TTL.
func (c *RedisStatsCache) Set(ctx context.Context, actorID string, gen int64, stats domain.DashboardStats) {
	if gen < 0 {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey(gen, actorID), data, c.ttl); err != nil {
		c.logger.Warn("stats cache write failed", slog.String("error", err.Error()))
	}
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) {
	if _, err := c.client.Incr(ctx, statsGenKey); err != nil {
		c.logger.Warn("stats cache invalidation failed", slog.String("error", err.Error()))
	}
	n, err := c.client.DeletePrefix(ctx, statsKeyPrefix)
	if err != nil {
		c.logger.Warn("stats cache invalidation failed", slog.String("error", err.Error()))
		return
	}
	c.logger.Debug("stats cache invalidated", slog.Int("keys", n))
}

// MemoryStatsCache keeps dashboard stats in process
type MemoryStatsCache struct {
	items *cache.Cache[domain.DashboardStats]
	gen   atomic.Int64
	ttl   time.Duration
}

// NewMemoryStatsCache creates an in-process stats cache
func NewMemoryStatsCache(ttl time.Duration) *MemoryStatsCache {
	return &MemoryStatsCache{items: cache.New[domain.DashboardStats](), ttl: ttl}
}

func (c *MemoryStatsCache) Get(ctx context.Context, actorID string) (*domain.DashboardStats, int64, bool) {
	gen := c.gen.Load()
	stats, ok := c.items.Get(statsKey(gen, actorID))
	metrics.ObserveStatsCache(ok)
	if !ok {
		return nil, gen, false
	}
	return &stats, gen, true
}

func (c *MemoryStatsCache) Set(ctx context.Context, actorID string, gen int64, stats domain.DashboardStats) {
	if gen < 0 || gen != c.gen.Load() {
		return
	}
	c.items.Sweep()
	c.items.Set(statsKey(gen, actorID), stats, c.ttl)
}

func (c *MemoryStatsCache) Invalidate(ctx context.Context) {
	c.gen.Add(1)
	c.items.Invalidate(statsKeyPrefix)
}
