package registry

import (
	"context"
	"sync"
	"time"

	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/requestcontext"
)

// CachedProvider memoizes successful lookups for a TTL. Registry data
// changes rarely; caching keeps repeat confirmations off the external
// service. Negative results are not cached so corrected numbers resolve
// immediately.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[id.RCNumber]cacheEntry
}

type cacheEntry struct {
	company  Company
	cachedAt time.Time
}

func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[id.RCNumber]cacheEntry),
	}
}

func (p *CachedProvider) FindCompany(ctx context.Context, rcNumber id.RCNumber) (*Company, error) {
	now := requestcontext.Now(ctx)

	p.mu.RLock()
	entry, ok := p.entries[rcNumber]
	p.mu.RUnlock()
	if ok && now.Sub(entry.cachedAt) < p.ttl {
		copied := entry.company
		return &copied, nil
	}

	company, err := p.inner.FindCompany(ctx, rcNumber)
	if err != nil {
		// Serve a stale entry when the registry is unreachable.
		if ok && dErrors.Retryable(err) {
			copied := entry.company
			return &copied, nil
		}
		return nil, err
	}

	p.mu.Lock()
	p.entries[rcNumber] = cacheEntry{company: *company, cachedAt: now}
	p.mu.Unlock()
	return company, nil
}
