package marketplace

import (
	"context"
	"log/slog"

	"pulsemarket/internal/business"
	"pulsemarket/internal/marketplace/metrics"
	"pulsemarket/internal/scoring"
	"pulsemarket/pkg/platform/audit"
)

// IndexUpdater applies committed scores to the listing index: verified
// businesses are published or refreshed, everything else is delisted.
type IndexUpdater struct {
	listings ListingStore
	auditor  AuditPort
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewIndexUpdater(listings ListingStore, auditor AuditPort, logger *slog.Logger, m *metrics.Metrics) *IndexUpdater {
	return &IndexUpdater{
		listings: listings,
		auditor:  auditor,
		logger:   logger,
		metrics:  m,
	}
}

func (u *IndexUpdater) ScoreCommitted(ctx context.Context, record *scoring.ScoreRecord, identity *business.BusinessIdentity) {
	if record.Status != scoring.StatusVerified {
		if err := u.listings.Remove(ctx, record.BusinessID); err != nil {
			u.logger.ErrorContext(ctx, "failed to delist business",
				"business_id", record.BusinessID,
				"error", err,
			)
		}
		u.refreshGauge(ctx)
		return
	}

	listing := Listing{
		BusinessID:     record.BusinessID,
		Name:           identity.Name,
		Industry:       identity.Industry,
		Address:        identity.Address,
		EmployeeCount:  identity.EmployeeCount,
		PulseScore:     record.PulseScore,
		ProfitScore:    record.ProfitScore,
		ProfitComputed: record.ProfitComputed,
		RiskLabel:      scoring.RiskLabel(record.PulseScore),
		LastUpdated:    record.LastUpdated,
	}
	if err := u.listings.Upsert(ctx, listing); err != nil {
		u.logger.ErrorContext(ctx, "failed to publish listing",
			"business_id", record.BusinessID,
			"error", err,
		)
		return
	}
	u.refreshGauge(ctx)

	if u.auditor != nil {
		event := audit.Event{
			Action:     string(audit.EventListingPublished),
			BusinessID: record.BusinessID,
			Subject:    identity.Name,
		}
		if err := u.auditor.Emit(ctx, event); err != nil {
			u.logger.WarnContext(ctx, "audit emit failed",
				"action", event.Action,
				"error", err,
			)
		}
	}
}

func (u *IndexUpdater) refreshGauge(ctx context.Context) {
	count, err := u.listings.Count(ctx)
	if err != nil {
		return
	}
	u.metrics.SetListingCount(count)
}
