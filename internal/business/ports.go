package business

import (
	"context"
	"time"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/audit"
)

// CompanyRegistry answers registration lookups for the
// business-type confirmation stage. Implemented by the registry
// adapter over the external corporate registry.
type CompanyRegistry interface {
	Lookup(ctx context.Context, rcNumber id.RCNumber) (*RegistrationRecord, error)
}

// RegistrationRecord is the registry's view of a registered company.
type RegistrationRecord struct {
	RCNumber     id.RCNumber
	CompanyName  string
	BusinessType string
	RegisteredAt time.Time
}

// ScoreReader exposes the committed score for dashboards without
// coupling this package to the scoring module.
type ScoreReader interface {
	Summary(ctx context.Context, businessID id.BusinessID) (*ScoreSummary, bool, error)
}

// ScoreSummary is the dashboard-facing slice of a score record.
type ScoreSummary struct {
	PulseScore     int            `json:"pulse_score"`
	ProfitScore    int            `json:"profit_score"`
	ProfitComputed bool           `json:"profit_computed"`
	Status         string         `json:"status"`
	FailureReason  string         `json:"failure_reason,omitempty"`
	RiskLabel      string         `json:"risk_label"`
	Breakdown      map[string]int `json:"breakdown"`
	LastUpdated    time.Time      `json:"last_updated"`
}

// AuditPort defines the interface for emitting audit events.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}
