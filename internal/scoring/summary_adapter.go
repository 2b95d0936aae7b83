package scoring

import (
	"context"
	"errors"
	"maps"

	"pulsemarket/internal/business"
	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"
)

// SummaryAdapter exposes committed scores to the business dashboard
// without the dashboard depending on scoring internals.
type SummaryAdapter struct {
	store Store
}

func NewSummaryAdapter(store Store) *SummaryAdapter {
	return &SummaryAdapter{store: store}
}

func (a *SummaryAdapter) Summary(ctx context.Context, businessID id.BusinessID) (*business.ScoreSummary, bool, error) {
	record, err := a.store.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &business.ScoreSummary{
		PulseScore:     record.PulseScore,
		ProfitScore:    record.ProfitScore,
		ProfitComputed: record.ProfitComputed,
		Status:         string(record.Status),
		FailureReason:  record.FailureReason,
		RiskLabel:      RiskLabel(record.PulseScore),
		Breakdown:      maps.Clone(record.Breakdown),
		LastUpdated:    record.LastUpdated,
	}, true, nil
}
