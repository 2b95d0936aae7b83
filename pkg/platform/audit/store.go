package audit

import (
	"context"

	id "pulsemarket/pkg/domain"
)

// Store persists audit events. Implementations must be safe for
// concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByBusiness(ctx context.Context, businessID id.BusinessID) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
