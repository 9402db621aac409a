package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitCache counts hits per subject in fixed windows
type RateLimitCache interface {
	// Hit records one hit and returns the count inside the current window
	// together with the time left until the window resets.
	Hit(ctx context.Context, scope, subject string) (int64, time.Duration, error)
}

type rateLimitCache struct {
	client redis.Cmdable
	window time.Duration
}

// NewRateLimitCache creates a fixed-window counter
func NewRateLimitCache(client redis.Cmdable, window time.Duration) RateLimitCache {
	return &rateLimitCache{
		client: client,
		window: window,
	}
}

func (c *rateLimitCache) key(scope, subject string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, subject)
}

func (c *rateLimitCache) Hit(ctx context.Context, scope, subject string) (int64, time.Duration, error) {
	key := c.key(scope, subject)

	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := c.client.Expire(ctx, key, c.window).Err(); err != nil {
			return count, c.window, err
		}
		return count, c.window, nil
	}

	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return count, c.window, err
	}
	// A key without expiry would never reset
	if ttl < 0 {
		if err := c.client.Expire(ctx, key, c.window).Err(); err != nil {
			return count, c.window, err
		}
		ttl = c.window
	}
	return count, ttl, nil
}
