package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBucketStore implements BucketStore with a fixed window counter
// in Redis so limits hold across server instances.
type RedisBucketStore struct {
	client *redis.Client
}

// NewRedisBucketStore creates a bucket store over an existing client.
func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client}
}

// Allow increments the window counter for key and reports whether the
// request fits within limit. The counter expires with the window, so an
// idle key costs nothing.
func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	pipe := s.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	remainingTTL := ttl.Val()
	if remainingTTL < 0 {
		remainingTTL = window
	}
	resetAt := now.Add(remainingTTL)

	used := int(count.Val())
	if used > limit {
		return &Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(now, resetAt),
		}, nil
	}
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - used,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for a key.
func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
