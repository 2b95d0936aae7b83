package interest

import (
	"time"

	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
)

// Status is a lender's position on a business. The lifecycle only
// moves forward: viewed, interested, negotiating, then funded or
// declined. Declined is reachable from any non-terminal status.
type Status string

const (
	StatusViewed      Status = "viewed"
	StatusInterested  Status = "interested"
	StatusNegotiating Status = "negotiating"
	StatusFunded      Status = "funded"
	StatusDeclined    Status = "declined"
)

// Statuses lists all statuses in lifecycle order.
var Statuses = []Status{StatusViewed, StatusInterested, StatusNegotiating, StatusFunded, StatusDeclined}

// ParseStatus validates a status string from the wire.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusViewed, StatusInterested, StatusNegotiating, StatusFunded, StatusDeclined:
		return Status(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown interest status %q", s)
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusFunded || s == StatusDeclined
}

// CanTransition reports whether from may move to target. Viewed may
// jump straight to negotiating (the make-offer shortcut); regressions
// and terminal exits are never allowed.
func CanTransition(from, target Status) bool {
	if from.Terminal() {
		return false
	}
	if target == StatusDeclined {
		return true
	}
	switch from {
	case StatusViewed:
		return target == StatusInterested || target == StatusNegotiating
	case StatusInterested:
		return target == StatusNegotiating
	case StatusNegotiating:
		return target == StatusFunded
	}
	return false
}

// Edge is the interest relation between one lender and one business.
// Unique per (lender, business) pair.
type Edge struct {
	LenderID   id.LenderID
	BusinessID id.BusinessID
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
