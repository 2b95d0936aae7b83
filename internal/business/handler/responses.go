package handler

import (
	"time"

	"pulsemarket/internal/business"
)

// ProfileResponse is the HTTP representation of a business identity.
type ProfileResponse struct {
	ID                    string    `json:"id"`
	OwnerID               string    `json:"owner_id"`
	Name                  string    `json:"name"`
	Category              string    `json:"category"`
	Industry              string    `json:"industry"`
	Address               string    `json:"address"`
	EmployeeCount         int       `json:"employee_count"`
	MonthlyRevenue        float64   `json:"monthly_revenue"`
	RCNumber              string    `json:"rc_number,omitempty"`
	BusinessType          string    `json:"business_type,omitempty"`
	RegistrationConfirmed bool      `json:"registration_confirmed"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// FromIdentity converts a domain identity to an HTTP response.
func FromIdentity(identity *business.BusinessIdentity) *ProfileResponse {
	return &ProfileResponse{
		ID:                    identity.ID.String(),
		OwnerID:               identity.OwnerID.String(),
		Name:                  identity.Name,
		Category:              identity.Category,
		Industry:              identity.Industry,
		Address:               identity.Address,
		EmployeeCount:         identity.EmployeeCount,
		MonthlyRevenue:        identity.MonthlyRevenue,
		RCNumber:              identity.RCNumber.String(),
		BusinessType:          identity.BusinessType,
		RegistrationConfirmed: identity.RegistrationConfirmed,
		CreatedAt:             identity.CreatedAt,
		UpdatedAt:             identity.UpdatedAt,
	}
}

// EvidenceResponse is the HTTP representation of an evidence record.
type EvidenceResponse struct {
	BusinessID  string            `json:"business_id"`
	Channel     string            `json:"channel"`
	ArtifactRef string            `json:"artifact_ref"`
	Verified    bool              `json:"verified"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// FromEvidence converts a domain evidence record to an HTTP response.
func FromEvidence(record business.EvidenceRecord) *EvidenceResponse {
	return &EvidenceResponse{
		BusinessID:  record.BusinessID.String(),
		Channel:     string(record.Channel),
		ArtifactRef: record.ArtifactRef,
		Verified:    record.Verified,
		Metadata:    record.Metadata,
		SubmittedAt: record.SubmittedAt,
	}
}

// DashboardResponse is the HTTP representation of the SME dashboard.
type DashboardResponse struct {
	Profile  *ProfileResponse       `json:"profile"`
	Progress business.StageProgress `json:"progress"`
	Score    *business.ScoreSummary `json:"score,omitempty"`
}

// FromDashboard converts a domain dashboard to an HTTP response.
func FromDashboard(dashboard *business.Dashboard) *DashboardResponse {
	return &DashboardResponse{
		Profile:  FromIdentity(dashboard.Identity),
		Progress: dashboard.Progress,
		Score:    dashboard.Score,
	}
}
