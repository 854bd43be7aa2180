package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := NewClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestIsRateLimited_WindowIsFixedFromFirstHit(t *testing.T) {
	c, mr := newMiniClient(t)
	ctx := context.Background()

	// Six requests 50s apart with a 3-per-minute limit never exceed the limit
	// inside any one window.
	for i := 0; i < 6; i++ {
		assert.False(t, c.IsRateLimited(ctx, "10.0.0.1", 3, time.Minute), "request %d", i+1)
		mr.FastForward(50 * time.Second)
	}
}

func TestIsRateLimited_LimitsWithinWindow(t *testing.T) {
	c, mr := newMiniClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.False(t, c.IsRateLimited(ctx, "10.0.0.1", 3, time.Minute))
	}
	assert.True(t, c.IsRateLimited(ctx, "10.0.0.1", 3, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:10.0.0.1"))

	mr.FastForward(61 * time.Second)
	assert.False(t, c.IsRateLimited(ctx, "10.0.0.1", 3, time.Minute))
}

func TestIsRateLimited_RedisDownNeverLimits(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	c, err := NewClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	mr.Close()

	assert.False(t, c.IsRateLimited(context.Background(), "10.0.0.1", 0, time.Minute))
}
