package scoring

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"pulsemarket/internal/business"
	"pulsemarket/internal/scoring/metrics"
	"pulsemarket/internal/scoring/ports"
	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/platform/audit"
	"pulsemarket/pkg/platform/sentinel"
	"pulsemarket/pkg/requestcontext"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// IdentitySource supplies the business identity a scoring run evaluates.
type IdentitySource interface {
	Get(ctx context.Context, businessID id.BusinessID) (*business.BusinessIdentity, error)
}

// EvidenceSource supplies a versioned evidence snapshot and the live
// version for the optimistic consistency check at commit time.
type EvidenceSource interface {
	Snapshot(ctx context.Context, businessID id.BusinessID) (*business.EvidenceSnapshot, error)
	Version(ctx context.Context, businessID id.BusinessID) (int64, error)
}

// Subscriber is notified after a score has been committed. Used to keep
// the marketplace index in step with scoring outcomes.
type Subscriber interface {
	ScoreCommitted(ctx context.Context, record *ScoreRecord, identity *business.BusinessIdentity)
}

// AuditPort emits compliance events for scoring runs.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs the scoring pipeline: snapshot evidence, gather oracle
// verdicts, evaluate the weight table, and commit the result if the
// evidence has not changed underneath the run.
type Service struct {
	identities IdentitySource
	evidence   EvidenceSource
	documents  ports.DocumentVerifier
	videos     ports.VideoVerifier
	bank       ports.BankAggregator
	store      Store
	auditor    AuditPort
	logger     *slog.Logger
	metrics    *metrics.Metrics

	tracer         trace.Tracer
	oracleTimeout  time.Duration
	maxRetries     int
	profitScaleMax float64

	subscribers []Subscriber

	// locks serializes runs per business so concurrent requests cannot
	// interleave snapshot and commit.
	locks sync.Map
}

// ServiceConfig collects the dependencies and tunables for NewService.
type ServiceConfig struct {
	Identities IdentitySource
	Evidence   EvidenceSource
	Documents  ports.DocumentVerifier
	Videos     ports.VideoVerifier
	Bank       ports.BankAggregator
	Store      Store
	Auditor    AuditPort
	Logger     *slog.Logger
	Metrics    *metrics.Metrics

	OracleTimeout  time.Duration
	MaxRetries     int
	ProfitScaleMax float64
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = 5 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.ProfitScaleMax <= 0 {
		cfg.ProfitScaleMax = 100
	}
	return &Service{
		identities:     cfg.Identities,
		evidence:       cfg.Evidence,
		documents:      cfg.Documents,
		videos:         cfg.Videos,
		bank:           cfg.Bank,
		store:          cfg.Store,
		auditor:        cfg.Auditor,
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
		tracer:         otel.Tracer("pulsemarket/scoring"),
		oracleTimeout:  cfg.OracleTimeout,
		maxRetries:     cfg.MaxRetries,
		profitScaleMax: cfg.ProfitScaleMax,
	}
}

// Subscribe registers a subscriber for committed scores. Not safe to
// call once the service is handling requests.
func (s *Service) Subscribe(sub Subscriber) {
	s.subscribers = append(s.subscribers, sub)
}

// RequestScoring runs the full pipeline for one business. Runs for the
// same business are serialized; a retriable evidence change mid-run
// restarts the snapshot up to maxRetries times. On oracle failure the
// prior committed score is left untouched. A nil ownerID skips the
// ownership check for internal callers.
func (s *Service) RequestScoring(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID) (*ScoreRecord, error) {
	lock := s.lockFor(businessID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	record, err := s.runScoring(ctx, ownerID, businessID)
	s.metrics.ObserveRunLatency(time.Since(start))
	return record, err
}

func (s *Service) runScoring(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID) (*ScoreRecord, error) {
	identity, err := s.loadOwnedIdentity(ctx, ownerID, businessID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		snapshot, err := s.evidence.Snapshot(ctx, businessID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to snapshot evidence")
		}

		verdicts, err := s.gatherVerdicts(ctx, snapshot, identity)
		if err != nil {
			s.metrics.IncrementRunOutcome("error")
			s.emit(ctx, businessID, audit.Event{
				Action:  string(audit.EventScoringFailed),
				Subject: identity.Name,
				Reason:  err.Error(),
			})
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "verification oracle timed out")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeExternal, "verification oracle failed")
		}

		prior, err := s.store.Get(ctx, businessID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load prior score")
		}

		record := ComputeScore(*verdicts, prior, s.profitScaleMax, requestcontext.Now(ctx))
		record.BusinessID = businessID
		record.EvidenceVersion = snapshot.Version

		current, err := s.evidence.Version(ctx, businessID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check evidence version")
		}
		if current != snapshot.Version {
			s.metrics.IncrementConsistencyRetries()
			s.logger.WarnContext(ctx, "evidence changed during scoring run",
				"business_id", businessID,
				"snapshot_version", snapshot.Version,
				"current_version", current,
				"attempt", attempt,
			)
			continue
		}

		if err := s.store.Save(ctx, &record); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save score")
		}

		s.metrics.IncrementRunOutcome(string(record.Status))
		s.announce(ctx, &record, identity)
		s.emit(ctx, businessID, audit.Event{
			Action:   string(audit.EventScoringCompleted),
			Subject:  identity.Name,
			Decision: string(record.Status),
			Reason:   record.FailureReason,
		})
		if record.Status == StatusVerified {
			s.emit(ctx, businessID, audit.Event{
				Action:  string(audit.EventBusinessVerified),
				Subject: identity.Name,
			})
		}

		s.logger.InfoContext(ctx, "scoring run committed",
			"business_id", businessID,
			"pulse_score", record.PulseScore,
			"status", record.Status,
			"evidence_version", record.EvidenceVersion,
		)
		return &record, nil
	}

	return nil, dErrors.New(dErrors.CodeExternal, "evidence kept changing during scoring, try again")
}

// GetScore returns the committed score for a business. A nil ownerID
// skips the ownership check for internal callers.
func (s *Service) GetScore(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID) (*ScoreRecord, error) {
	if _, err := s.loadOwnedIdentity(ctx, ownerID, businessID); err != nil {
		return nil, err
	}
	record, err := s.store.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "business has not been scored")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load score")
	}
	return record, nil
}

// CountByStatus reports how many businesses hold each score status.
func (s *Service) CountByStatus(ctx context.Context) (map[ScoreStatus]int, error) {
	return s.store.CountByStatus(ctx)
}

func (s *Service) loadOwnedIdentity(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID) (*business.BusinessIdentity, error) {
	identity, err := s.identities.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "business not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load business identity")
	}
	if !ownerID.IsNil() && identity.OwnerID != ownerID {
		return nil, dErrors.New(dErrors.CodeForbidden, "business is owned by another account")
	}
	return identity, nil
}

func (s *Service) lockFor(businessID id.BusinessID) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(businessID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func (s *Service) announce(ctx context.Context, record *ScoreRecord, identity *business.BusinessIdentity) {
	for _, sub := range s.subscribers {
		sub.ScoreCommitted(ctx, record, identity)
	}
}

func (s *Service) emit(ctx context.Context, businessID id.BusinessID, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.BusinessID = businessID
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
