package marketplace

import (
	"context"
	"sync"
	"time"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"
)

// InMemoryListingStore keeps listings in a map for tests and
// single-node deployments.
type InMemoryListingStore struct {
	mu       sync.RWMutex
	listings map[id.BusinessID]Listing
}

func NewInMemoryListingStore() *InMemoryListingStore {
	return &InMemoryListingStore{listings: make(map[id.BusinessID]Listing)}
}

func (s *InMemoryListingStore) Upsert(_ context.Context, listing Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[listing.BusinessID] = listing
	return nil
}

func (s *InMemoryListingStore) Remove(_ context.Context, businessID id.BusinessID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listings, businessID)
	return nil
}

func (s *InMemoryListingStore) Get(_ context.Context, businessID id.BusinessID) (*Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listing, ok := s.listings[businessID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &listing, nil
}

func (s *InMemoryListingStore) All(_ context.Context) ([]Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]Listing, 0, len(s.listings))
	for _, listing := range s.listings {
		all = append(all, listing)
	}
	return all, nil
}

func (s *InMemoryListingStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings), nil
}

type snapshotEntry struct {
	listings  []Listing
	expiresAt time.Time
}

// InMemorySnapshotStore holds browse snapshots with lazy TTL expiry.
type InMemorySnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]snapshotEntry
	now       func() time.Time
}

func NewInMemorySnapshotStore() *InMemorySnapshotStore {
	return &InMemorySnapshotStore{
		snapshots: make(map[string]snapshotEntry),
		now:       time.Now,
	}
}

func (s *InMemorySnapshotStore) Save(_ context.Context, token string, listings []Listing, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[token] = snapshotEntry{
		listings:  listings,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *InMemorySnapshotStore) Get(_ context.Context, token string) ([]Listing, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.snapshots[token]
	if !ok {
		return nil, false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.snapshots, token)
		return nil, false, nil
	}
	return entry.listings, true, nil
}
