package business

import (
	"context"
	"time"

	id "pulsemarket/pkg/domain"
)

// IdentityStore persists business identities. Upsert is atomic
// merge-or-create so concurrent first submissions never produce
// duplicate identities.
type IdentityStore interface {
	Upsert(ctx context.Context, businessID id.BusinessID, ownerID id.OwnerID, fields ProfileFields, now time.Time) (*BusinessIdentity, error)
	Get(ctx context.Context, businessID id.BusinessID) (*BusinessIdentity, error)
	GetByOwner(ctx context.Context, ownerID id.OwnerID) (*BusinessIdentity, error)
	ConfirmRegistration(ctx context.Context, businessID id.BusinessID, rcNumber id.RCNumber, businessType string, now time.Time) (*BusinessIdentity, error)
	CountAll(ctx context.Context) (int, error)
}

// EvidenceStore persists at most one EvidenceRecord per (business,
// channel). Replace bumps the per-business evidence version unless the
// submission is identical to the stored record, keeping resubmission
// idempotent.
type EvidenceStore interface {
	Replace(ctx context.Context, record EvidenceRecord) (EvidenceRecord, error)
	Snapshot(ctx context.Context, businessID id.BusinessID) (*EvidenceSnapshot, error)
	Version(ctx context.Context, businessID id.BusinessID) (int64, error)
}
