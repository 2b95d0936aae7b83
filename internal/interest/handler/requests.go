package handler

import (
	"pulsemarket/internal/interest"
	dErrors "pulsemarket/pkg/domain-errors"
)

// RecordActionRequest is the HTTP request body for
// POST /interests/{businessID}. Status is the target lifecycle status.
type RecordActionRequest struct {
	Status string `json:"status"`

	// Parsed values (populated by Validate)
	parsedStatus interest.Status
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RecordActionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	status, err := interest.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	if status == interest.StatusViewed {
		return dErrors.New(dErrors.CodeValidation, "views are recorded by browsing, not by action")
	}
	r.parsedStatus = status
	return nil
}

// ParsedStatus returns the validated target status.
func (r *RecordActionRequest) ParsedStatus() interest.Status {
	return r.parsedStatus
}
