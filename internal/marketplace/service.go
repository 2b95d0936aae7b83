package marketplace

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pulsemarket/internal/marketplace/metrics"
	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/platform/audit"
	"pulsemarket/pkg/platform/sentinel"
	"pulsemarket/pkg/requestcontext"

	"github.com/google/uuid"
)

// InterestRecorder is the interest tracker port the marketplace feeds
// first-time views into. Created reports whether this call made the
// edge, so the notify-once guarantee rides on the tracker's atomic
// create-if-absent.
type InterestRecorder interface {
	RecordView(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID) (created bool, err error)
}

// AuditPort emits marketplace audit events.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service serves lender browsing over the listing index with
// snapshot-pinned pagination and view tracking.
type Service struct {
	listings    ListingStore
	snapshots   SnapshotStore
	interests   InterestRecorder
	auditor     AuditPort
	logger      *slog.Logger
	metrics     *metrics.Metrics
	snapshotTTL time.Duration
}

func NewService(
	listings ListingStore,
	snapshots SnapshotStore,
	interests InterestRecorder,
	auditor AuditPort,
	logger *slog.Logger,
	m *metrics.Metrics,
	snapshotTTL time.Duration,
) *Service {
	if snapshotTTL <= 0 {
		snapshotTTL = 5 * time.Minute
	}
	return &Service{
		listings:    listings,
		snapshots:   snapshots,
		interests:   interests,
		auditor:     auditor,
		logger:      logger,
		metrics:     m,
		snapshotTTL: snapshotTTL,
	}
}

// Browse returns one page of ranked listings. The first page captures
// a snapshot of the ranked set and returns its token; passing the
// token back pins later pages to that snapshot even while score
// commits reshuffle the live index.
func (s *Service) Browse(ctx context.Context, lenderID id.LenderID, query Query) (*Page, error) {
	query.Normalize()

	ranked, token, err := s.resolveResultSet(ctx, query)
	if err != nil {
		return nil, err
	}

	items, hasMore := Paginate(ranked, query.Page, query.PageSize)
	s.notifyViews(ctx, lenderID, items)

	return &Page{
		Listings:      items,
		Total:         len(ranked),
		Facets:        BuildFacets(ranked),
		PageNumber:    query.Page,
		PageSize:      query.PageSize,
		SnapshotToken: token,
		HasMore:       hasMore,
	}, nil
}

func (s *Service) resolveResultSet(ctx context.Context, query Query) ([]Listing, string, error) {
	if query.SnapshotToken != "" {
		ranked, found, err := s.snapshots.Get(ctx, query.SnapshotToken)
		if err != nil {
			return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load browse snapshot")
		}
		if !found {
			s.metrics.RecordSnapshotLookup("miss")
			return nil, "", dErrors.New(dErrors.CodeBadRequest, "snapshot token expired or unknown")
		}
		s.metrics.RecordSnapshotLookup("hit")
		s.metrics.IncrementQueries("snapshot")
		return ranked, query.SnapshotToken, nil
	}

	all, err := s.listings.All(ctx)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read listings")
	}
	ranked := FilterAndRank(all, query)

	token := uuid.NewString()
	if err := s.snapshots.Save(ctx, token, ranked, s.snapshotTTL); err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to capture browse snapshot")
	}
	s.metrics.IncrementQueries("fresh")
	return ranked, token, nil
}

// Detail returns one listed business. Fetching a detail page counts as
// a view for notify-once purposes.
func (s *Service) Detail(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID) (*Listing, error) {
	listing, err := s.listings.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "business is not listed")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load listing")
	}
	s.notifyViews(ctx, lenderID, []Listing{*listing})
	return listing, nil
}

// CountListings reports the current number of published listings.
func (s *Service) CountListings(ctx context.Context) (int, error) {
	return s.listings.Count(ctx)
}

// notifyViews forwards first-time (lender, business) appearances to
// the interest tracker. The tracker's create-if-absent keeps this
// exactly-once even when pages race.
func (s *Service) notifyViews(ctx context.Context, lenderID id.LenderID, items []Listing) {
	if s.interests == nil || lenderID.IsNil() {
		return
	}
	for _, listing := range items {
		created, err := s.interests.RecordView(ctx, lenderID, listing.BusinessID)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to record listing view",
				"lender_id", lenderID,
				"business_id", listing.BusinessID,
				"error", err,
			)
			continue
		}
		if !created {
			continue
		}
		s.metrics.IncrementViewsRecorded()
		s.emit(ctx, audit.Event{
			Action:     string(audit.EventListingViewed),
			BusinessID: listing.BusinessID,
			LenderID:   lenderID,
			Subject:    listing.Name,
		})
	}
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
