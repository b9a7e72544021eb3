package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key patterns:
// - ratelimit:auth:{ip}          - per-minute auth attempts
// - ratelimit:messages:{user_id} - per-minute message sends

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	AuthLimit     int
	AuthWindow    time.Duration
	MessageLimit  int
	MessageWindow time.Duration
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		AuthLimit:     5,
		AuthWindow:    60 * time.Second,
		MessageLimit:  60,
		MessageWindow: 60 * time.Second,
	}
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	Limit     int
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, config: config}
}

// AllowAuth checks whether an IP may attempt another login/registration.
func (r *RateLimiter) AllowAuth(ctx context.Context, ip string) (RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:auth:%s", ip)
	return r.allow(ctx, key, r.config.AuthLimit, r.config.AuthWindow)
}

// AllowMessage checks whether a user may send another message.
func (r *RateLimiter) AllowMessage(ctx context.Context, userID string) (RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:messages:%s", userID)
	return r.allow(ctx, key, r.config.MessageLimit, r.config.MessageWindow)
}

// allow implements a fixed-window counter: INCR plus EXPIRE on first hit.
func (r *RateLimiter) allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateLimitResult{}, err
	}

	count := incr.Val()
	resetIn := ttl.Val()
	if resetIn < 0 {
		// First hit in this window; start it.
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return RateLimitResult{}, err
		}
		resetIn = window
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitResult{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
		ResetIn:   resetIn,
		Limit:     limit,
	}, nil
}
