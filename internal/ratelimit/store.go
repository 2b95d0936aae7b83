package ratelimit

import (
	"context"
	"time"
)

// BucketStore counts requests per key within a rolling window.
type BucketStore interface {
	// Allow records one request against key and reports whether it fits
	// within limit for the window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
	// Reset clears the counter for a key.
	Reset(ctx context.Context, key string) error
}
