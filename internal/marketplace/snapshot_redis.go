package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshotStore shares browse snapshots across instances so
// paginated sessions survive load balancing.
type RedisSnapshotStore struct {
	client *redis.Client
}

func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

func snapshotKey(token string) string {
	return "marketplace:snapshot:" + token
}

func (s *RedisSnapshotStore) Save(ctx context.Context, token string, listings []Listing, ttl time.Duration) error {
	payload, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Get(ctx context.Context, token string) ([]Listing, bool, error) {
	payload, err := s.client.Get(ctx, snapshotKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}
	var listings []Listing
	if err := json.Unmarshal(payload, &listings); err != nil {
		return nil, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return listings, true, nil
}
