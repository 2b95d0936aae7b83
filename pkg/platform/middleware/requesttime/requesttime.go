// Package requesttime pins a single "now" to each HTTP request. Evidence
// timestamps, score commit times, and audit events emitted while handling
// one request all observe the same instant.
package requesttime

import (
	"net/http"
	"time"

	"pulsemarket/pkg/requestcontext"
)

// Middleware stamps the request context with the wall clock time at which
// the request arrived.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
