package testutil

import (
	"net/http"

	id "pulsemarket/pkg/domain"
	"pulsemarket/pkg/requestcontext"
)

// WithOwner adds an owner identity to the request context, simulating
// what the auth middleware does for an authenticated SME request.
// Invalid IDs are silently ignored.
func WithOwner(req *http.Request, ownerID string) *http.Request {
	parsed, err := id.ParseOwnerID(ownerID)
	if err != nil {
		return req
	}
	ctx := requestcontext.WithOwnerID(req.Context(), parsed)
	ctx = requestcontext.WithCallerRole(ctx, requestcontext.RoleSME)
	return req.WithContext(ctx)
}

// WithLender adds a lender identity to the request context, simulating
// what the auth middleware does for an authenticated lender request.
// Invalid IDs are silently ignored.
func WithLender(req *http.Request, lenderID string) *http.Request {
	parsed, err := id.ParseLenderID(lenderID)
	if err != nil {
		return req
	}
	ctx := requestcontext.WithLenderID(req.Context(), parsed)
	ctx = requestcontext.WithCallerRole(ctx, requestcontext.RoleLender)
	return req.WithContext(ctx)
}

// WithRequestID stamps a request ID on the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
