//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err, "start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := NewClient(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedis(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "users:missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "users:1", []byte(`{"id":"1"}`), time.Minute))
	got, err := c.Get(ctx, "users:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(got))

	require.NoError(t, c.Delete(ctx, "users:1"))
	_, err = c.Get(ctx, "users:1")
	assert.ErrorIs(t, err, ErrMiss)

	// Misses must not trip the breaker.
	for i := 0; i < 5; i++ {
		_, _ = c.Get(ctx, "users:missing")
	}
	require.NoError(t, c.Set(ctx, "users:2", []byte("{}"), time.Minute))
}

func TestRedis_RateLimit(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.False(t, c.IsRateLimited(ctx, "10.0.0.1", 3, time.Minute), "request %d", i+1)
	}
	assert.True(t, c.IsRateLimited(ctx, "10.0.0.1", 3, time.Minute))
	assert.False(t, c.IsRateLimited(ctx, "10.0.0.2", 3, time.Minute))
}
