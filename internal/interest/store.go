package interest

import (
	"context"
	"time"

	id "pulsemarket/pkg/domain"
)

// ListFilter narrows and paginates edge listings.
type ListFilter struct {
	Status   Status
	Page     int
	PageSize int
}

// Store persists interest edges. Create is atomic create-if-absent and
// reports whether this call made the edge. UpdateStatus commits by
// compare-and-set on the expected current status and returns
// sentinel.ErrVersionMismatch when the edge moved underneath the
// caller.
type Store interface {
	Create(ctx context.Context, edge Edge) (created bool, err error)
	Get(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID) (*Edge, error)
	UpdateStatus(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID, from, to Status, now time.Time) (*Edge, error)
	ListByLender(ctx context.Context, lenderID id.LenderID, filter ListFilter) (edges []Edge, total int, err error)
	CountByStatusForLender(ctx context.Context, lenderID id.LenderID) (map[Status]int, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
	CountLenders(ctx context.Context) (int, error)
}
