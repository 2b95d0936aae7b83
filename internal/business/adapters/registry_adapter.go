// Package adapters bridges the business module's ports to concrete
// implementations from other modules.
package adapters

import (
	"context"

	"pulsemarket/internal/business"
	"pulsemarket/internal/registry"
	id "pulsemarket/pkg/domain"
)

// RegistryAdapter adapts a registry.Provider to the business module's
// CompanyRegistry port.
type RegistryAdapter struct {
	provider registry.Provider
}

func NewRegistryAdapter(provider registry.Provider) *RegistryAdapter {
	return &RegistryAdapter{provider: provider}
}

func (a *RegistryAdapter) Lookup(ctx context.Context, rcNumber id.RCNumber) (*business.RegistrationRecord, error) {
	company, err := a.provider.FindCompany(ctx, rcNumber)
	if err != nil {
		return nil, err
	}
	return &business.RegistrationRecord{
		RCNumber:     company.RCNumber,
		CompanyName:  company.Name,
		BusinessType: company.BusinessType,
		RegisteredAt: company.RegisteredAt,
	}, nil
}
