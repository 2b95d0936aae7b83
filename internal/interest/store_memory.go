package interest

import (
	"context"
	"sort"
	"sync"
	"time"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/platform/sentinel"
)

type edgeKey struct {
	lenderID   id.LenderID
	businessID id.BusinessID
}

// InMemoryStore keeps interest edges in a map for tests and
// single-node deployments. All mutations happen under one lock, which
// is what makes Create and UpdateStatus atomic.
type InMemoryStore struct {
	mu    sync.Mutex
	edges map[edgeKey]Edge
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{edges: make(map[edgeKey]Edge)}
}

func (s *InMemoryStore) Create(_ context.Context, edge Edge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := edgeKey{edge.LenderID, edge.BusinessID}
	if _, ok := s.edges[key]; ok {
		return false, nil
	}
	s.edges[key] = edge
	return true, nil
}

func (s *InMemoryStore) Get(_ context.Context, lenderID id.LenderID, businessID id.BusinessID) (*Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edge, ok := s.edges[edgeKey{lenderID, businessID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &edge, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, lenderID id.LenderID, businessID id.BusinessID, from, to Status, now time.Time) (*Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := edgeKey{lenderID, businessID}
	edge, ok := s.edges[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if edge.Status != from {
		return nil, sentinel.ErrVersionMismatch
	}
	edge.Status = to
	edge.UpdatedAt = now
	s.edges[key] = edge
	return &edge, nil
}

func (s *InMemoryStore) ListByLender(_ context.Context, lenderID id.LenderID, filter ListFilter) ([]Edge, int, error) {
	s.mu.Lock()
	matched := make([]Edge, 0)
	for key, edge := range s.edges {
		if key.lenderID != lenderID {
			continue
		}
		if filter.Status != "" && edge.Status != filter.Status {
			continue
		}
		matched = append(matched, edge)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return []Edge{}, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *InMemoryStore) CountByStatusForLender(_ context.Context, lenderID id.LenderID) (map[Status]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[Status]int)
	for key, edge := range s.edges {
		if key.lenderID == lenderID {
			counts[edge.Status]++
		}
	}
	return counts, nil
}

func (s *InMemoryStore) CountByStatus(_ context.Context) (map[Status]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[Status]int)
	for _, edge := range s.edges {
		counts[edge.Status]++
	}
	return counts, nil
}

func (s *InMemoryStore) CountLenders(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lenders := make(map[id.LenderID]struct{})
	for key := range s.edges {
		lenders[key.lenderID] = struct{}{}
	}
	return len(lenders), nil
}
