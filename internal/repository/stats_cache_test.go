package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/redis"
)

func newRedisStatsCache(t *testing.T) (*RedisStatsCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient("redis://"+mr.Addr(), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisStatsCache(client, time.Minute, quietLogger()), mr
}

func TestRedisStatsCacheRoundTrip(t *testing.T) {
	c, mr := newRedisStatsCache(t)
	ctx := context.Background()

	_, gen, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
	assert.Zero(t, gen)

	want := domain.DashboardStats{TotalIncidents: 2, TotalWarnings: 1, TotalBans: 1, TotalVenues: 2}
	c.Set(ctx, "u1", gen, want)

	got, _, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, want, *got)
	assert.Equal(t, time.Minute, mr.TTL(statsKey(gen, "u1")))
}

func TestRedisStatsCacheInvalidate(t *testing.T) {
	c, mr := newRedisStatsCache(t)
	ctx := context.Background()

	c.Set(ctx, "u1", 0, domain.DashboardStats{TotalIncidents: 1})
	c.Set(ctx, "u2", 0, domain.DashboardStats{TotalIncidents: 2})
	require.NoError(t, mr.Set("unrelated", "x"))

	c.Invalidate(ctx)

	_, gen, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)
	_, _, ok = c.Get(ctx, "u2")
	assert.False(t, ok)
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisStatsCacheDropsStatsCountedBeforeInvalidate(t *testing.T) {
	c, _ := newRedisStatsCache(t)
	ctx := context.Background()

	_, gen, ok := c.Get(ctx, "u1")
	require.False(t, ok)

	c.Invalidate(ctx)
	c.Set(ctx, "u1", gen, domain.DashboardStats{TotalIncidents: 7})

	_, _, ok = c.Get(ctx, "u1")
	assert.False(t, ok, "stats counted before an invalidation must not be served")
}

func TestRedisStatsCacheIgnoresMalformedEntry(t *testing.T) {
	c, mr := newRedisStatsCache(t)
	require.NoError(t, mr.Set(statsKey(0, "u1"), "{not json"))

	_, _, ok := c.Get(context.Background(), "u1")
	assert.False(t, ok)
}

func TestMemoryStatsCache(t *testing.T) {
	c := NewMemoryStatsCache(time.Minute)
	ctx := context.Background()

	_, gen, ok := c.Get(ctx, "u1")
	require.False(t, ok)
	c.Set(ctx, "u1", gen, domain.DashboardStats{TotalBans: 4})
	got, _, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, 4, got.TotalBans)

	c.Invalidate(ctx)
	_, _, ok = c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestMemoryStatsCacheDropsStatsCountedBeforeInvalidate(t *testing.T) {
	c := NewMemoryStatsCache(time.Minute)
	ctx := context.Background()

	_, gen, _ := c.Get(ctx, "u1")
	c.Invalidate(ctx)
	c.Set(ctx, "u1", gen, domain.DashboardStats{TotalBans: 9})

	_, _, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	c.Set(ctx, "u1", -1, domain.DashboardStats{TotalBans: 9})
	_, _, ok = c.Get(ctx, "u1")
	assert.False(t, ok)
}
