// Package request provides request ID middleware. Every request gets a
// correlation ID, either propagated from the caller or freshly generated, so
// logs and audit events across modules can be joined.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"pulsemarket/pkg/requestcontext"
)

// HeaderRequestID is the header used to propagate correlation IDs.
const HeaderRequestID = "X-Request-ID"

// Middleware ensures a request ID is present in the context and echoed back
// in the response headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
