package interest

import (
	"context"
	"errors"
	"log/slog"

	"pulsemarket/internal/interest/metrics"
	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/platform/audit"
	"pulsemarket/pkg/platform/sentinel"
	"pulsemarket/pkg/requestcontext"
)

// ListingCounter reports marketplace totals for the lender dashboard.
type ListingCounter interface {
	CountListings(ctx context.Context) (int, error)
}

// AuditPort emits interest lifecycle audit events.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages the interest lifecycle between lenders and listed
// businesses.
type Service struct {
	store    Store
	listings ListingCounter
	auditor  AuditPort
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewService(store Store, listings ListingCounter, auditor AuditPort, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		listings: listings,
		auditor:  auditor,
		logger:   logger,
		metrics:  m,
	}
}

// RecordView creates the (lender, business) edge in viewed status if
// it does not exist yet. An existing edge is never touched, so views
// can never downgrade a later status. Returns whether this call
// created the edge.
func (s *Service) RecordView(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID) (bool, error) {
	now := requestcontext.Now(ctx)
	created, err := s.store.Create(ctx, Edge{
		LenderID:   lenderID,
		BusinessID: businessID,
		Status:     StatusViewed,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record view")
	}
	if created {
		s.metrics.IncrementViewsCreated()
	}
	return created, nil
}

// RecordAction moves the edge to the target status through a validated
// transition committed by compare-and-set. Invalid transitions and
// lost races both surface as conflicts, leaving the edge unchanged.
func (s *Service) RecordAction(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID, target Status) (*Edge, error) {
	current, err := s.store.Get(ctx, lenderID, businessID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no interaction with this business yet")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load interest")
	}

	if !CanTransition(current.Status, target) {
		s.metrics.IncrementConflicts()
		return nil, dErrors.Newf(dErrors.CodeConflict, "cannot move interest from %s to %s", current.Status, target)
	}

	edge, err := s.store.UpdateStatus(ctx, lenderID, businessID, current.Status, target, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrVersionMismatch) {
			s.metrics.IncrementConflicts()
			return nil, dErrors.New(dErrors.CodeConflict, "interest status changed concurrently")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no interaction with this business yet")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update interest")
	}

	s.metrics.IncrementTransitions(string(target))
	if action, ok := transitionEvents[target]; ok {
		s.emit(ctx, audit.Event{
			Action:     string(action),
			BusinessID: businessID,
			LenderID:   lenderID,
			Decision:   string(target),
		})
	}

	s.logger.InfoContext(ctx, "interest transition committed",
		"lender_id", lenderID,
		"business_id", businessID,
		"from", current.Status,
		"to", target,
	)
	return edge, nil
}

var transitionEvents = map[Status]audit.AuditEvent{
	StatusInterested:  audit.EventInterestExpressed,
	StatusNegotiating: audit.EventNegotiationStarted,
	StatusFunded:      audit.EventDealFunded,
	StatusDeclined:    audit.EventDealDeclined,
}

// ListInterests returns the lender's edges, most recently updated
// first.
func (s *Service) ListInterests(ctx context.Context, lenderID id.LenderID, filter ListFilter) ([]Edge, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	edges, total, err := s.store.ListByLender(ctx, lenderID, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list interests")
	}
	return edges, total, nil
}

// Dashboard is the lender's portfolio summary.
type Dashboard struct {
	PortfolioCounts map[Status]int
	TotalListings   int
}

// GetDashboard assembles per-status portfolio counts plus the current
// marketplace size.
func (s *Service) GetDashboard(ctx context.Context, lenderID id.LenderID) (*Dashboard, error) {
	counts, err := s.store.CountByStatusForLender(ctx, lenderID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count portfolio")
	}

	dashboard := &Dashboard{PortfolioCounts: counts}
	if s.listings != nil {
		total, err := s.listings.CountListings(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count listings")
		}
		dashboard.TotalListings = total
	}
	return dashboard, nil
}

// CountByStatus reports platform-wide edge counts per status.
func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.store.CountByStatus(ctx)
}

// CountLenders reports how many distinct lenders hold at least one
// edge.
func (s *Service) CountLenders(ctx context.Context) (int, error) {
	return s.store.CountLenders(ctx)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.UserAgent = requestcontext.UserAgent(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
		)
	}
}
