package registry

import (
	"context"
	"time"

	id "pulsemarket/pkg/domain"
)

// Company is the corporate registry's record of a registered business.
type Company struct {
	RCNumber     id.RCNumber
	Name         string
	BusinessType string
	RegisteredAt time.Time
}

// Provider answers company lookups by registration number.
// Implementations: HTTP client against the external registry, static
// provider for development, TTL cache decorator.
type Provider interface {
	FindCompany(ctx context.Context, rcNumber id.RCNumber) (*Company, error)
}
