// Package domainerrors defines the error taxonomy shared by all modules.
//
// Services and handlers communicate failure through coded errors so the HTTP
// layer can translate them into consistent responses and callers can
// distinguish retryable failures from terminal ones. Store layers return
// sentinel errors (pkg/platform/sentinel) and services wrap them with a code
// at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping and retry policy.
type Code string

const (
	// CodeValidation marks malformed or semantically invalid input.
	// Surfaced immediately, never retried.
	CodeValidation Code = "validation_error"

	// CodeInvalidInput marks a single field that failed parsing.
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks a request that could not be decoded at all.
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks a missing entity (business, edge, listing).
	CodeNotFound Code = "not_found"

	// CodeConflict marks an illegal state transition or a lost create race.
	// The caller may retry with a corrected target state.
	CodeConflict Code = "conflict"

	// CodeExternal marks an oracle failure (timeout, network, invalid
	// artifact). Retryable at the adapter boundary; committed state is
	// never mutated by a failed run.
	CodeExternal Code = "external_service_error"

	// CodeInconsistency marks evidence mutated while a scoring run was in
	// flight. Triggers a bounded automatic retry of the run; exhausted
	// retries surface to the caller as CodeExternal.
	CodeInconsistency Code = "scoring_inconsistency"

	// CodeInvariantViolation marks a broken domain invariant.
	CodeInvariantViolation Code = "invariant_violation"

	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeTimeout      Code = "timeout"
	CodeUnavailable  Code = "unavailable"
	CodeInternal     Code = "internal_error"
)

// Error is a coded domain error. It wraps an optional cause so errors.Is and
// errors.As keep working through the chain.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is makes coded errors comparable with errors.Is: two coded errors match
// when their code and message match, regardless of cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is shorthand for HasCode, reading naturally in assertions.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from an error, defaulting to CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Retryable reports whether the failure is worth retrying from the caller's
// side. Only external-service class failures qualify; validation, conflicts
// and invariant violations are terminal as stated.
func Retryable(err error) bool {
	switch CodeOf(err) {
	case CodeExternal, CodeTimeout, CodeUnavailable, CodeInconsistency:
		return true
	}
	return false
}

// HTTPStatus maps a code to its transport status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvariantViolation:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeExternal, CodeUnavailable, CodeInconsistency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
