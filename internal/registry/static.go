package registry

import (
	"context"
	"strings"
	"sync"
	"time"

	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
)

// StaticProvider serves lookups from a seeded map, falling back to
// resolving any RC-prefixed number as a generic registered company.
// Used for development and tests when no registry endpoint is
// configured.
type StaticProvider struct {
	mu        sync.RWMutex
	companies map[id.RCNumber]*Company
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{companies: make(map[id.RCNumber]*Company)}
}

// Seed registers a company for subsequent lookups.
func (p *StaticProvider) Seed(company *Company) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.companies[company.RCNumber] = company
}

func (p *StaticProvider) FindCompany(_ context.Context, rcNumber id.RCNumber) (*Company, error) {
	p.mu.RLock()
	company, ok := p.companies[rcNumber]
	p.mu.RUnlock()
	if ok {
		copied := *company
		return &copied, nil
	}

	// RC-prefixed numbers resolve as registered limited companies.
	if strings.HasPrefix(rcNumber.String(), "RC") && len(rcNumber.String()) > 2 {
		return &Company{
			RCNumber:     rcNumber,
			Name:         "Registered Company " + rcNumber.String(),
			BusinessType: "limited_company",
			RegisteredAt: time.Now(),
		}, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "registration number not found")
}
