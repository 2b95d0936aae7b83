package handler

import (
	"strings"

	"pulsemarket/internal/business"
	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
)

// SubmitProfileRequest is the HTTP request body for POST /businesses/profile.
// All fields are optional on resubmission; only provided fields are merged.
type SubmitProfileRequest struct {
	BusinessID     string   `json:"business_id,omitempty"`
	Name           *string  `json:"name,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Industry       *string  `json:"industry,omitempty"`
	Address        *string  `json:"address,omitempty"`
	EmployeeCount  *int     `json:"employee_count,omitempty"`
	MonthlyRevenue *float64 `json:"monthly_revenue,omitempty"`

	// Parsed values (populated by Validate)
	parsedBusinessID id.BusinessID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SubmitProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if r.BusinessID != "" {
		businessID, err := id.ParseBusinessID(r.BusinessID)
		if err != nil {
			return err
		}
		r.parsedBusinessID = businessID
	}

	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return dErrors.New(dErrors.CodeValidation, "name must not be blank")
		}
		if len(trimmed) > 200 {
			return dErrors.New(dErrors.CodeValidation, "name must be at most 200 characters")
		}
		r.Name = &trimmed
	}
	if r.Industry != nil {
		trimmed := strings.TrimSpace(*r.Industry)
		if trimmed == "" {
			return dErrors.New(dErrors.CodeValidation, "industry must not be blank")
		}
		r.Industry = &trimmed
	}
	if r.EmployeeCount != nil && *r.EmployeeCount < 0 {
		return dErrors.New(dErrors.CodeValidation, "employee_count must not be negative")
	}
	if r.MonthlyRevenue != nil && *r.MonthlyRevenue < 0 {
		return dErrors.New(dErrors.CodeValidation, "monthly_revenue must not be negative")
	}

	return nil
}

// ParsedBusinessID returns the validated business ID, nil UUID when absent.
func (r *SubmitProfileRequest) ParsedBusinessID() id.BusinessID {
	return r.parsedBusinessID
}

// Fields converts the request into the domain merge payload.
func (r *SubmitProfileRequest) Fields() business.ProfileFields {
	return business.ProfileFields{
		Name:           r.Name,
		Category:       r.Category,
		Industry:       r.Industry,
		Address:        r.Address,
		EmployeeCount:  r.EmployeeCount,
		MonthlyRevenue: r.MonthlyRevenue,
	}
}

// UploadEvidenceRequest is the HTTP request body for
// POST /businesses/{businessID}/evidence.
type UploadEvidenceRequest struct {
	Channel     string `json:"channel"`
	ArtifactRef string `json:"artifact_ref"`

	parsedChannel business.EvidenceChannel
}

func (r *UploadEvidenceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.ArtifactRef = strings.TrimSpace(r.ArtifactRef)
	if r.ArtifactRef == "" {
		return dErrors.New(dErrors.CodeValidation, "artifact_ref is required")
	}
	if len(r.ArtifactRef) > 512 {
		return dErrors.New(dErrors.CodeValidation, "artifact_ref must be at most 512 characters")
	}

	channel, err := business.ParseEvidenceChannel(r.Channel)
	if err != nil {
		return err
	}
	r.parsedChannel = channel
	return nil
}

// ParsedChannel returns the validated evidence channel.
func (r *UploadEvidenceRequest) ParsedChannel() business.EvidenceChannel {
	return r.parsedChannel
}

// ConfirmBusinessTypeRequest is the HTTP request body for
// POST /businesses/{businessID}/business-type.
type ConfirmBusinessTypeRequest struct {
	RCNumber string `json:"rc_number"`

	parsedRCNumber id.RCNumber
}

func (r *ConfirmBusinessTypeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	rcNumber, err := id.ParseRCNumber(r.RCNumber)
	if err != nil {
		return err
	}
	r.parsedRCNumber = rcNumber
	return nil
}

// ParsedRCNumber returns the validated registration number.
func (r *ConfirmBusinessTypeRequest) ParsedRCNumber() id.RCNumber {
	return r.parsedRCNumber
}
