package business

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pulsemarket/internal/business/metrics"
	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/platform/audit"
	"pulsemarket/pkg/platform/sentinel"
	"pulsemarket/pkg/requestcontext"
)

// Service orchestrates the verification pipeline stages over the
// evidence and identity stores. Scoring itself lives in the scoring
// module; this service only maintains the evidence the scorer reads.
type Service struct {
	identities IdentityStore
	evidence   EvidenceStore
	registry   CompanyRegistry
	scores     ScoreReader
	auditor    AuditPort
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewService(
	identities IdentityStore,
	evidence EvidenceStore,
	registry CompanyRegistry,
	scores ScoreReader,
	auditor AuditPort,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		identities: identities,
		evidence:   evidence,
		registry:   registry,
		scores:     scores,
		auditor:    auditor,
		logger:     logger,
		metrics:    m,
	}
}

// SubmitProfile upserts the business identity. Resubmission with
// overlapping fields merges last-write-per-field and never creates a
// duplicate identity; an omitted business ID resolves to the owner's
// existing business before a new one is minted.
func (s *Service) SubmitProfile(ctx context.Context, businessID id.BusinessID, ownerID id.OwnerID, fields ProfileFields) (*BusinessIdentity, error) {
	if businessID.IsNil() {
		existing, err := s.identities.GetByOwner(ctx, ownerID)
		switch {
		case err == nil:
			businessID = existing.ID
		case errors.Is(err, sentinel.ErrNotFound):
			businessID = id.NewBusinessID()
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to submit profile")
		}
	}
	now := requestcontext.Now(ctx)

	identity, err := s.identities.Upsert(ctx, businessID, ownerID, fields, now)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "business belongs to another owner")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to submit profile")
	}

	s.metrics.IncrementProfilesSubmitted()
	s.emit(ctx, audit.Event{
		BusinessID: identity.ID,
		Action:     string(audit.EventProfileSubmitted),
		Stage:      string(StageProfileSubmitted),
		Subject:    identity.Name,
	})
	return identity, nil
}

// UploadEvidence replaces the evidence record for the given channel.
// Verification is deferred to the scoring oracles; nothing is verified
// synchronously here.
func (s *Service) UploadEvidence(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID, channel EvidenceChannel, artifactRef string) (EvidenceRecord, error) {
	if artifactRef == "" {
		return EvidenceRecord{}, dErrors.New(dErrors.CodeValidation, "artifact_ref is required")
	}

	identity, err := s.requireOwned(ctx, ownerID, businessID)
	if err != nil {
		return EvidenceRecord{}, err
	}

	record := EvidenceRecord{
		BusinessID:  identity.ID,
		Channel:     channel,
		ArtifactRef: artifactRef,
		SubmittedAt: requestcontext.Now(ctx),
	}
	stored, err := s.evidence.Replace(ctx, record)
	if err != nil {
		return EvidenceRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store evidence")
	}

	s.metrics.IncrementEvidenceUploaded(string(channel))
	s.emit(ctx, audit.Event{
		BusinessID: identity.ID,
		Action:     string(audit.EventEvidenceUploaded),
		Stage:      string(stageForChannel(channel)),
		Subject:    artifactRef,
	})
	return stored, nil
}

// ConfirmBusinessType resolves the registration number against the
// corporate registry and records the confirmed business type.
func (s *Service) ConfirmBusinessType(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID, rcNumber id.RCNumber) (*BusinessIdentity, error) {
	identity, err := s.requireOwned(ctx, ownerID, businessID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	registration, err := s.registry.Lookup(ctx, rcNumber)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.metrics.RecordRegistryLookup("not_found", time.Since(start))
			return nil, err
		}
		s.metrics.RecordRegistryLookup("error", time.Since(start))
		return nil, dErrors.Wrap(err, dErrors.CodeExternal, "registry lookup failed")
	}
	s.metrics.RecordRegistryLookup("found", time.Since(start))

	confirmed, err := s.identities.ConfirmRegistration(ctx, identity.ID, registration.RCNumber, registration.BusinessType, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "business not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to confirm business type")
	}

	s.emit(ctx, audit.Event{
		BusinessID: confirmed.ID,
		Action:     string(audit.EventBusinessTypeConfirmed),
		Stage:      string(StageBusinessTypeConfirmed),
		Subject:    registration.RCNumber.String(),
		Decision:   registration.BusinessType,
	})
	return confirmed, nil
}

// GetProfile returns the business identity.
func (s *Service) GetProfile(ctx context.Context, businessID id.BusinessID) (*BusinessIdentity, error) {
	identity, err := s.identities.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "business not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load business")
	}
	return identity, nil
}

// Snapshot exposes a consistent evidence snapshot for scoring runs.
func (s *Service) Snapshot(ctx context.Context, businessID id.BusinessID) (*EvidenceSnapshot, error) {
	snapshot, err := s.evidence.Snapshot(ctx, businessID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "business not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to snapshot evidence")
	}
	return snapshot, nil
}

// Dashboard aggregates the SME's verification state into one view.
type Dashboard struct {
	Identity *BusinessIdentity
	Progress StageProgress
	Score    *ScoreSummary
}

// GetDashboard builds the owner-facing dashboard: the declared profile,
// per-stage completion, and the committed score with its breakdown.
func (s *Service) GetDashboard(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID) (*Dashboard, error) {
	identity, err := s.requireOwned(ctx, ownerID, businessID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.evidence.Snapshot(ctx, identity.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to snapshot evidence")
	}

	dashboard := &Dashboard{
		Identity: identity,
		Progress: StageProgress{
			ProfileSubmitted:      true,
			BusinessTypeConfirmed: identity.RegistrationConfirmed,
		},
	}
	if snapshot != nil {
		_, dashboard.Progress.DocumentUploaded = snapshot.Record(ChannelDocument)
		_, dashboard.Progress.VideoUploaded = snapshot.Record(ChannelVideo)
		_, dashboard.Progress.BankConnected = snapshot.Record(ChannelBank)
	}

	if s.scores != nil {
		summary, ok, err := s.scores.Summary(ctx, identity.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load score")
		}
		if ok {
			dashboard.Score = summary
			dashboard.Progress.Scored = summary.Status != "pending"
		}
	}
	return dashboard, nil
}

// CountBusinesses reports the total number of registered businesses.
func (s *Service) CountBusinesses(ctx context.Context) (int, error) {
	return s.identities.CountAll(ctx)
}

func (s *Service) requireOwned(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID) (*BusinessIdentity, error) {
	identity, err := s.GetProfile(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if identity.OwnerID != ownerID {
		return nil, dErrors.New(dErrors.CodeForbidden, "business is owned by another account")
	}
	return identity, nil
}

func stageForChannel(channel EvidenceChannel) Stage {
	switch channel {
	case ChannelDocument:
		return StageDocumentUploaded
	case ChannelVideo:
		return StageVideoUploaded
	case ChannelBank:
		return StageBankConnected
	}
	return ""
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
