package business

import (
	"context"
	"maps"
	"sync"
	"time"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"
)

// InMemoryIdentityStore keeps identities in a map for tests and local runs.
type InMemoryIdentityStore struct {
	mu         sync.RWMutex
	identities map[id.BusinessID]*BusinessIdentity
	byOwner    map[id.OwnerID]id.BusinessID
}

func NewInMemoryIdentityStore() *InMemoryIdentityStore {
	return &InMemoryIdentityStore{
		identities: make(map[id.BusinessID]*BusinessIdentity),
		byOwner:    make(map[id.OwnerID]id.BusinessID),
	}
}

func (s *InMemoryIdentityStore) Upsert(_ context.Context, businessID id.BusinessID, ownerID id.OwnerID, fields ProfileFields, now time.Time) (*BusinessIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.identities[businessID]
	if !ok {
		// One business per owner; a second create never displaces the
		// byOwner mapping.
		if _, owned := s.byOwner[ownerID]; owned {
			return nil, sentinel.ErrConflict
		}
		identity = &BusinessIdentity{
			ID:        businessID,
			OwnerID:   ownerID,
			CreatedAt: now,
		}
		s.identities[businessID] = identity
		s.byOwner[ownerID] = businessID
	}
	if identity.OwnerID != ownerID {
		return nil, sentinel.ErrConflict
	}
	identity.Apply(fields, now)

	copied := *identity
	return &copied, nil
}

func (s *InMemoryIdentityStore) Get(_ context.Context, businessID id.BusinessID) (*BusinessIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[businessID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *identity
	return &copied, nil
}

func (s *InMemoryIdentityStore) GetByOwner(_ context.Context, ownerID id.OwnerID) (*BusinessIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	businessID, ok := s.byOwner[ownerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.identities[businessID]
	return &copied, nil
}

func (s *InMemoryIdentityStore) ConfirmRegistration(_ context.Context, businessID id.BusinessID, rcNumber id.RCNumber, businessType string, now time.Time) (*BusinessIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[businessID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	identity.RCNumber = rcNumber
	identity.BusinessType = businessType
	identity.RegistrationConfirmed = true
	identity.UpdatedAt = now

	copied := *identity
	return &copied, nil
}

func (s *InMemoryIdentityStore) CountAll(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identities), nil
}

// InMemoryEvidenceStore keeps evidence records and per-business
// versions in maps.
type InMemoryEvidenceStore struct {
	mu       sync.RWMutex
	records  map[id.BusinessID]map[EvidenceChannel]EvidenceRecord
	versions map[id.BusinessID]int64
}

func NewInMemoryEvidenceStore() *InMemoryEvidenceStore {
	return &InMemoryEvidenceStore{
		records:  make(map[id.BusinessID]map[EvidenceChannel]EvidenceRecord),
		versions: make(map[id.BusinessID]int64),
	}
}

func (s *InMemoryEvidenceStore) Replace(_ context.Context, record EvidenceRecord) (EvidenceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channels, ok := s.records[record.BusinessID]
	if !ok {
		channels = make(map[EvidenceChannel]EvidenceRecord)
		s.records[record.BusinessID] = channels
	}

	// Identical resubmission keeps the stored record and version.
	if existing, ok := channels[record.Channel]; ok && existing.ArtifactRef == record.ArtifactRef {
		return existing, nil
	}

	channels[record.Channel] = record
	s.versions[record.BusinessID]++
	return record, nil
}

func (s *InMemoryEvidenceStore) Snapshot(_ context.Context, businessID id.BusinessID) (*EvidenceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make(map[EvidenceChannel]EvidenceRecord)
	maps.Copy(records, s.records[businessID])

	return &EvidenceSnapshot{
		BusinessID: businessID,
		Records:    records,
		Version:    s.versions[businessID],
		TakenAt:    time.Now(),
	}, nil
}

func (s *InMemoryEvidenceStore) Version(_ context.Context, businessID id.BusinessID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[businessID], nil
}
