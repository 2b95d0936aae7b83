package scoring

import (
	"context"
	"maps"
	"sync"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"
)

// InMemoryStore keeps score records in a map for tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.BusinessID]*ScoreRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.BusinessID]*ScoreRecord)}
}

func (s *InMemoryStore) Save(_ context.Context, record *ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	copied.Breakdown = maps.Clone(record.Breakdown)
	s.records[record.BusinessID] = &copied
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, businessID id.BusinessID) (*ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[businessID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *record
	copied.Breakdown = maps.Clone(record.Breakdown)
	return &copied, nil
}

func (s *InMemoryStore) CountByStatus(_ context.Context) (map[ScoreStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[ScoreStatus]int)
	for _, record := range s.records {
		counts[record.Status]++
	}
	return counts, nil
}
