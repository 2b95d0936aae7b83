// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them. Keeping the package free
// of net/http lets services import only what they need without pulling in
// HTTP-related code.
//
// Usage in services (read values):
//
//	lenderID := requestcontext.LenderID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithLenderID(ctx, lenderID)
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "pulsemarket/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	ownerIDKey     struct{}
	lenderIDKey    struct{}
	roleKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
)

// Role is the caller's role as asserted by the external auth service.
type Role string

const (
	RoleSME    Role = "sme"
	RoleLender Role = "lender"
	RoleAdmin  Role = "admin"
)

// OwnerID retrieves the authenticated business-owner ID from the context.
// Returns the zero value if not set.
func OwnerID(ctx context.Context) id.OwnerID {
	if v, ok := ctx.Value(ownerIDKey{}).(id.OwnerID); ok {
		return v
	}
	return id.OwnerID{}
}

// WithOwnerID injects an owner ID into the context.
func WithOwnerID(ctx context.Context, ownerID id.OwnerID) context.Context {
	return context.WithValue(ctx, ownerIDKey{}, ownerID)
}

// LenderID retrieves the authenticated lender ID from the context.
// Returns the zero value if not set.
func LenderID(ctx context.Context) id.LenderID {
	if v, ok := ctx.Value(lenderIDKey{}).(id.LenderID); ok {
		return v
	}
	return id.LenderID{}
}

// WithLenderID injects a lender ID into the context.
func WithLenderID(ctx context.Context, lenderID id.LenderID) context.Context {
	return context.WithValue(ctx, lenderIDKey{}, lenderID)
}

// CallerRole retrieves the caller's asserted role from the context.
func CallerRole(ctx context.Context) Role {
	if v, ok := ctx.Value(roleKey{}).(Role); ok {
		return v
	}
	return ""
}

// WithCallerRole injects a role into the context.
func WithCallerRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain, and for workers that
// need consistent time within a batch.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey{}).(string); ok {
		return v
	}
	return ""
}

// UserAgent retrieves the normalized User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if v, ok := ctx.Value(userAgentKey{}).(string); ok {
		return v
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	ctx = context.WithValue(ctx, userAgentKey{}, userAgent)
	return ctx
}
