package domain

import (
	"github.com/google/uuid"

	dErrors "pulsemarket/pkg/domain-errors"
)

// Typed IDs for the core entities. Distinct types make it impossible to pass
// a lender ID where a business ID is expected; the compiler enforces the
// boundary.
type (
	// BusinessID identifies a small business on the platform.
	BusinessID uuid.UUID

	// OwnerID identifies the account that owns a business profile.
	// Issued by the external auth service; we only carry it.
	OwnerID uuid.UUID

	// LenderID identifies a lender browsing the marketplace.
	LenderID uuid.UUID
)

// NewBusinessID generates a fresh business ID.
func NewBusinessID() BusinessID {
	return BusinessID(uuid.New())
}

// ParseBusinessID validates and parses a business ID from its string form.
// IDs must be valid, non-nil UUIDs.
func ParseBusinessID(s string) (BusinessID, error) {
	u, err := parseUUID(s, "business_id")
	if err != nil {
		return BusinessID{}, err
	}
	return BusinessID(u), nil
}

func (id BusinessID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id BusinessID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewOwnerID generates a fresh owner ID. Production owner IDs come
// from the external auth service; this is for tests and fixtures.
func NewOwnerID() OwnerID {
	return OwnerID(uuid.New())
}

// ParseOwnerID validates and parses an owner ID from its string form.
func ParseOwnerID(s string) (OwnerID, error) {
	u, err := parseUUID(s, "owner_id")
	if err != nil {
		return OwnerID{}, err
	}
	return OwnerID(u), nil
}

func (id OwnerID) String() string { return uuid.UUID(id).String() }

func (id OwnerID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewLenderID generates a fresh lender ID. Production lender IDs come
// from the external auth service; this is for tests and fixtures.
func NewLenderID() LenderID {
	return LenderID(uuid.New())
}

// ParseLenderID validates and parses a lender ID from its string form.
func ParseLenderID(s string) (LenderID, error) {
	u, err := parseUUID(s, "lender_id")
	if err != nil {
		return LenderID{}, err
	}
	return LenderID(u), nil
}

func (id LenderID) String() string { return uuid.UUID(id).String() }

func (id LenderID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be the nil UUID")
	}
	return u, nil
}
