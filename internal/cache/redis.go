package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"shop-api/internal/resilience"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
	cb  *resilience.CircuitBreaker
}

func NewClient(ctx context.Context, addr string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return &Client{
		rdb: rdb,
		cb:  resilience.NewCircuitBreaker("redis", 3, 10*time.Second),
	}, nil
}

// incrWindow starts the expiry only on the first hit, so the window is
// fixed from that request and later hits do not extend it.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// IsRateLimited counts a request from ip in a fixed window and reports
// whether it went over limit. Redis failures never limit.
func (c *Client) IsRateLimited(ctx context.Context, ip string, limit int, window time.Duration) bool {
	key := fmt.Sprintf("ratelimit:%s", ip)

	var count int64
	err := c.cb.Do(func() error {
		n, err := incrWindow.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Int64()
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		return false
	}

	return count > int64(limit)
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	miss := false
	err := c.cb.Do(func() error {
		b, err := c.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			miss = true
			return nil
		}
		data = b
		return err
	})
	if err != nil {
		return nil, err
	}
	if miss {
		return nil, ErrMiss
	}
	return data, nil
}

func (c *Client) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.cb.Do(func() error {
		return c.rdb.Set(ctx, key, data, ttl).Err()
	})
}

func (c *Client) Delete(ctx context.Context, key string) error {
	return c.cb.Do(func() error {
		return c.rdb.Del(ctx, key).Err()
	})
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
