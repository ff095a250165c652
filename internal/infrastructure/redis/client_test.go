package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := NewClient("redis://"+mr.Addr(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestSetGetDelete(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.True(t, errors.Is(err, Nil))
}

func TestDeletePrefix(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	for _, k := range []string{"stats:a", "stats:b", "other:c"} {
		require.NoError(t, c.Set(ctx, k, "1", time.Minute))
	}
	n, err := c.DeletePrefix(ctx, "stats:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, mr.Exists("stats:a"))
	assert.True(t, mr.Exists("other:c"))
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("not a url", nil)
	assert.Error(t, err)
}

func TestIncr(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	n, err := c.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
