package business

import (
	"strings"
	"time"

	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
)

// EvidenceChannel is an independent source of verification signal.
type EvidenceChannel string

const (
	ChannelDocument EvidenceChannel = "document"
	ChannelVideo    EvidenceChannel = "video"
	ChannelBank     EvidenceChannel = "bank"
)

// Channels lists all evidence channels in a stable order.
var Channels = []EvidenceChannel{ChannelDocument, ChannelVideo, ChannelBank}

// ParseEvidenceChannel validates a channel string from the wire.
func ParseEvidenceChannel(s string) (EvidenceChannel, error) {
	switch EvidenceChannel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelDocument:
		return ChannelDocument, nil
	case ChannelVideo:
		return ChannelVideo, nil
	case ChannelBank:
		return ChannelBank, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "channel must be one of document, video, bank")
	}
}

// Verification stages. Each stage is independently idempotent and may
// complete out of order, except scored which reads whatever evidence
// currently exists.
type Stage string

const (
	StageProfileSubmitted      Stage = "profile_submitted"
	StageDocumentUploaded      Stage = "document_uploaded"
	StageBusinessTypeConfirmed Stage = "business_type_confirmed"
	StageVideoUploaded         Stage = "video_uploaded"
	StageBankConnected         Stage = "bank_connected"
	StageScored                Stage = "scored"
)

// BusinessIdentity holds the declared profile of an SME. Created on
// first profile submission and mutated only by the owner.
type BusinessIdentity struct {
	ID             id.BusinessID
	OwnerID        id.OwnerID
	Name           string
	Category       string
	Industry       string
	Address        string
	EmployeeCount  int
	MonthlyRevenue float64

	// Registration details populated by the business-type confirmation
	// stage after a registry lookup.
	RCNumber              id.RCNumber
	BusinessType          string
	RegistrationConfirmed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileFields carries a partial profile submission. Nil fields are
// left untouched on merge (last-write-per-field wins).
type ProfileFields struct {
	Name           *string
	Category       *string
	Industry       *string
	Address        *string
	EmployeeCount  *int
	MonthlyRevenue *float64
}

// Apply merges non-nil fields into the identity.
func (b *BusinessIdentity) Apply(fields ProfileFields, now time.Time) {
	if fields.Name != nil {
		b.Name = *fields.Name
	}
	if fields.Category != nil {
		b.Category = *fields.Category
	}
	if fields.Industry != nil {
		b.Industry = *fields.Industry
	}
	if fields.Address != nil {
		b.Address = *fields.Address
	}
	if fields.EmployeeCount != nil {
		b.EmployeeCount = *fields.EmployeeCount
	}
	if fields.MonthlyRevenue != nil {
		b.MonthlyRevenue = *fields.MonthlyRevenue
	}
	b.UpdatedAt = now
}

// ProfileConsistent reports whether the declared profile is complete
// enough to earn the profile-consistency score component.
func (b *BusinessIdentity) ProfileConsistent() bool {
	return b.Name != "" && b.Industry != "" && b.Address != "" && b.EmployeeCount > 0
}

// EvidenceRecord holds one artifact per (business, channel). A new
// submission replaces, never appends.
type EvidenceRecord struct {
	BusinessID  id.BusinessID
	Channel     EvidenceChannel
	ArtifactRef string
	Verified    bool
	Metadata    map[string]string
	SubmittedAt time.Time
}

// EvidenceSnapshot is a consistent read of all evidence for one
// business, tagged with the version the snapshot was taken at.
// Scoring commits re-validate against this version.
type EvidenceSnapshot struct {
	BusinessID id.BusinessID
	Records    map[EvidenceChannel]EvidenceRecord
	Version    int64
	TakenAt    time.Time
}

// Record returns the evidence for a channel, if present.
func (s *EvidenceSnapshot) Record(channel EvidenceChannel) (EvidenceRecord, bool) {
	rec, ok := s.Records[channel]
	return rec, ok
}

// StageProgress reports which pipeline stages have completed.
type StageProgress struct {
	ProfileSubmitted      bool `json:"profile_submitted"`
	DocumentUploaded      bool `json:"document_uploaded"`
	BusinessTypeConfirmed bool `json:"business_type_confirmed"`
	VideoUploaded         bool `json:"video_uploaded"`
	BankConnected         bool `json:"bank_connected"`
	Scored                bool `json:"scored"`
}
