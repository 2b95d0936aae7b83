package admin

import (
	"context"
	"log/slog"

	"pulsemarket/internal/interest"
	"pulsemarket/internal/scoring"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/platform/audit"
	"pulsemarket/pkg/requestcontext"
)

// BusinessCounter reports how many businesses have submitted profiles.
type BusinessCounter interface {
	CountBusinesses(ctx context.Context) (int, error)
}

// ScoreCounter reports score record counts per status.
type ScoreCounter interface {
	CountByStatus(ctx context.Context) (map[scoring.ScoreStatus]int, error)
}

// ListingCounter reports the current marketplace size.
type ListingCounter interface {
	CountListings(ctx context.Context) (int, error)
}

// InterestCounter reports interest edge counts.
type InterestCounter interface {
	CountByStatus(ctx context.Context) (map[interest.Status]int, error)
	CountLenders(ctx context.Context) (int, error)
}

// AuditReader exposes recent audit events to operators.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

// AuditPort records that analytics were accessed.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Overview is the platform-wide analytics snapshot.
type Overview struct {
	Businesses         int
	VerifiedBusinesses int
	FailedScores       int
	Listings           int
	Lenders            int
	InterestsByStatus  map[interest.Status]int
}

// Service assembles admin analytics from the per-module counters.
type Service struct {
	businesses BusinessCounter
	scores     ScoreCounter
	listings   ListingCounter
	interests  InterestCounter
	auditLog   AuditReader
	auditor    AuditPort
	logger     *slog.Logger
}

func NewService(
	businesses BusinessCounter,
	scores ScoreCounter,
	listings ListingCounter,
	interests InterestCounter,
	auditLog AuditReader,
	auditor AuditPort,
	logger *slog.Logger,
) *Service {
	return &Service{
		businesses: businesses,
		scores:     scores,
		listings:   listings,
		interests:  interests,
		auditLog:   auditLog,
		auditor:    auditor,
		logger:     logger,
	}
}

// GetOverview gathers platform counts. Access is itself audited.
func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	businesses, err := s.businesses.CountBusinesses(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count businesses")
	}
	scores, err := s.scores.CountByStatus(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count scores")
	}
	listings, err := s.listings.CountListings(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count listings")
	}
	interests, err := s.interests.CountByStatus(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count interests")
	}
	lenders, err := s.interests.CountLenders(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count lenders")
	}

	s.emit(ctx)
	return &Overview{
		Businesses:         businesses,
		VerifiedBusinesses: scores[scoring.StatusVerified],
		FailedScores:       scores[scoring.StatusFailed],
		Listings:           listings,
		Lenders:            lenders,
		InterestsByStatus:  interests,
	}, nil
}

// RecentAuditEvents returns the newest audit events, capped at limit.
func (s *Service) RecentAuditEvents(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	events, err := s.auditLog.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
	}
	return events, nil
}

func (s *Service) emit(ctx context.Context) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Action:    string(audit.EventAdminAnalytics),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
		)
	}
}
