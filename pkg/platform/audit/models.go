package audit

import (
	"time"

	id "pulsemarket/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// These require tamper-proof storage and long retention.
	// Examples: scoring outcomes, verification grants, funded deals.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring and forensics.
	// Examples: auth failures, admin access, registry lookup anomalies.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational visibility.
	// These can be sampled or aggregated with shorter retention.
	// Examples: listing views, evidence uploads, routine pipeline progress.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// BusinessID identifies the SME the event concerns, when there is one.
	BusinessID id.BusinessID
	// LenderID identifies the acting lender for marketplace and interest events.
	LenderID id.LenderID
	Subject  string
	Action   string
	// Stage is the verification stage the event relates to, if any.
	Stage    string
	Decision string
	Reason   string
	// RequestID is the correlation ID from HTTP request context.
	RequestID string
	ClientIP  string
	UserAgent string
	// ActorID tracks who performed the action when different from the
	// business owner, e.g. an admin acting on a listing.
	ActorID string
}

type AuditEvent string

const (
	// Verification pipeline events
	EventProfileSubmitted      AuditEvent = "profile_submitted"
	EventEvidenceUploaded      AuditEvent = "evidence_uploaded"
	EventBusinessTypeConfirmed AuditEvent = "business_type_confirmed"
	EventRegistryLookup        AuditEvent = "registry_lookup_performed"

	// Scoring events
	EventScoringCompleted AuditEvent = "scoring_run_completed"
	EventScoringFailed    AuditEvent = "scoring_run_failed"
	EventBusinessVerified AuditEvent = "business_verified"

	// Marketplace events
	EventListingPublished AuditEvent = "listing_published"
	EventListingViewed    AuditEvent = "listing_viewed"

	// Interest lifecycle events
	EventInterestExpressed  AuditEvent = "interest_expressed"
	EventNegotiationStarted AuditEvent = "negotiation_started"
	EventDealFunded         AuditEvent = "deal_funded"
	EventDealDeclined       AuditEvent = "deal_declined"

	// Access events
	EventAuthFailed     AuditEvent = "auth_failed"
	EventAdminAnalytics AuditEvent = "admin_analytics_accessed"
)

// eventCategories maps each audit event to its category.
// Compliance: legal/regulatory significance, long retention required.
// Security: security monitoring and alerting.
// Operations: debugging, operational visibility, can be sampled.
var eventCategories = map[AuditEvent]EventCategory{
	// Compliance events - the scoring and deal trail lenders rely on
	EventScoringCompleted: CategoryCompliance,
	EventScoringFailed:    CategoryCompliance,
	EventBusinessVerified: CategoryCompliance,
	EventDealFunded:       CategoryCompliance,
	EventDealDeclined:     CategoryCompliance,

	// Security events
	EventAuthFailed:     CategorySecurity,
	EventAdminAnalytics: CategorySecurity,

	// Operations events - routine activity, can be sampled
	EventProfileSubmitted:      CategoryOperations,
	EventEvidenceUploaded:      CategoryOperations,
	EventBusinessTypeConfirmed: CategoryOperations,
	EventRegistryLookup:        CategoryOperations,
	EventListingPublished:      CategoryOperations,
	EventListingViewed:         CategoryOperations,
	EventInterestExpressed:     CategoryOperations,
	EventNegotiationStarted:    CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
