package handler

import (
	"time"

	"pulsemarket/internal/admin"
	"pulsemarket/pkg/platform/audit"
)

// OverviewResponse is the wire form of the analytics overview.
type OverviewResponse struct {
	Businesses         int            `json:"businesses"`
	VerifiedBusinesses int            `json:"verified_businesses"`
	FailedScores       int            `json:"failed_scores"`
	Listings           int            `json:"listings"`
	Lenders            int            `json:"lenders"`
	InterestsByStatus  map[string]int `json:"interests_by_status"`
}

func FromOverview(overview *admin.Overview) OverviewResponse {
	interests := make(map[string]int, len(overview.InterestsByStatus))
	for status, count := range overview.InterestsByStatus {
		interests[string(status)] = count
	}
	return OverviewResponse{
		Businesses:         overview.Businesses,
		VerifiedBusinesses: overview.VerifiedBusinesses,
		FailedScores:       overview.FailedScores,
		Listings:           overview.Listings,
		Lenders:            overview.Lenders,
		InterestsByStatus:  interests,
	}
}

// EventResponse is the wire form of one audit event.
type EventResponse struct {
	Category   string    `json:"category"`
	Action     string    `json:"action"`
	BusinessID string    `json:"business_id,omitempty"`
	LenderID   string    `json:"lender_id,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Stage      string    `json:"stage,omitempty"`
	Decision   string    `json:"decision,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func FromEvents(events []audit.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, event := range events {
		category := event.Category
		if category == "" {
			category = audit.AuditEvent(event.Action).Category()
		}
		resp := EventResponse{
			Category:  string(category),
			Action:    event.Action,
			Subject:   event.Subject,
			Stage:     event.Stage,
			Decision:  event.Decision,
			Reason:    event.Reason,
			Timestamp: event.Timestamp,
		}
		if !event.BusinessID.IsNil() {
			resp.BusinessID = event.BusinessID.String()
		}
		if !event.LenderID.IsNil() {
			resp.LenderID = event.LenderID.String()
		}
		out = append(out, resp)
	}
	return out
}
