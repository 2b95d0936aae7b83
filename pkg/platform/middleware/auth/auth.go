// Package auth validates externally issued bearer tokens at the HTTP
// boundary. Token issuance, sessions, and revocation belong to the external
// auth service; this middleware only verifies the signature and copies the
// asserted identity into the request context.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "pulsemarket/pkg/domain"
	request "pulsemarket/pkg/platform/middleware/request"
	"pulsemarket/pkg/requestcontext"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims carries the identity asserted by the external auth service.
type Claims struct {
	SubjectID string
	Role      string
}

// writeJSONError writes a JSON error response without pulling in httputil,
// keeping this package free of domain-error deps.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireRole returns middleware that admits only callers whose token carries
// the given role, and injects the typed subject ID for downstream handlers.
func RequireRole(validator TokenValidator, role requestcontext.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing bearer token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Bearer token required")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			if requestcontext.Role(claims.Role) != role {
				logger.WarnContext(ctx, "forbidden - role mismatch",
					"required_role", string(role),
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Insufficient role")
				return
			}

			ctx = requestcontext.WithCallerRole(ctx, role)
			switch role {
			case requestcontext.RoleSME:
				ownerID, err := id.ParseOwnerID(claims.SubjectID)
				if err != nil {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid subject")
					return
				}
				ctx = requestcontext.WithOwnerID(ctx, ownerID)
			case requestcontext.RoleLender:
				lenderID, err := id.ParseLenderID(claims.SubjectID)
				if err != nil {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid subject")
					return
				}
				ctx = requestcontext.WithLenderID(ctx, lenderID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
