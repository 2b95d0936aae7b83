package scoring

import (
	"context"

	id "pulsemarket/pkg/domain"
)

// Store persists the committed ScoreRecord per business. Get returns
// sentinel.ErrNotFound when a business has never been scored.
type Store interface {
	Save(ctx context.Context, record *ScoreRecord) error
	Get(ctx context.Context, businessID id.BusinessID) (*ScoreRecord, error)
	CountByStatus(ctx context.Context) (map[ScoreStatus]int, error)
}
