package marketplace

import (
	"context"
	"time"

	id "pulsemarket/pkg/domain"
)

// ListingStore holds the current set of marketplace listings. Upsert
// and Remove are driven by score commits; reads serve lender queries.
type ListingStore interface {
	Upsert(ctx context.Context, listing Listing) error
	Remove(ctx context.Context, businessID id.BusinessID) error
	Get(ctx context.Context, businessID id.BusinessID) (*Listing, error)
	All(ctx context.Context) ([]Listing, error)
	Count(ctx context.Context) (int, error)
}

// SnapshotStore pins a ranked result set under an opaque token so
// later pages stay stable while the index keeps moving.
type SnapshotStore interface {
	Save(ctx context.Context, token string, listings []Listing, ttl time.Duration) error
	Get(ctx context.Context, token string) ([]Listing, bool, error)
}
