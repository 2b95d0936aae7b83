package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"

	"pulsemarket/pkg/platform/httputil"
	"pulsemarket/pkg/requestcontext"
)

// Middleware enforces per-caller request limits on the HTTP surface.
// Authenticated callers are keyed by their account ID, everything else
// by client IP.
type Middleware struct {
	limiter  *Limiter
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns enforcement off, for demo and test setups.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func NewMiddleware(limiter *Limiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{limiter: limiter, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Limit returns the enforcement middleware for one endpoint class.
func (m *Middleware) Limit(class EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			caller := callerKey(r)

			result, degraded, err := m.limiter.Check(ctx, caller, class)
			if err != nil {
				// Enforcement failing entirely must not take the API down.
				m.logger.ErrorContext(ctx, "rate limit check failed, letting request through",
					"error", err,
					"class", string(class),
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if degraded {
				w.Header().Set("X-RateLimit-Status", "degraded")
			}

			if !result.Allowed {
				writeLimitExceeded(w, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func callerKey(r *http.Request) string {
	if ownerID := requestcontext.OwnerID(r.Context()); !ownerID.IsNil() {
		return "owner:" + ownerID.String()
	}
	if lenderID := requestcontext.LenderID(r.Context()); !lenderID.IsNil() {
		return "lender:" + lenderID.String()
	}
	if ip := requestcontext.ClientIP(r.Context()); ip != "" {
		return "ip:" + ip
	}
	return "ip:" + r.RemoteAddr
}

func addRateLimitHeaders(w http.ResponseWriter, result *Result) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeLimitExceeded(w http.ResponseWriter, result *Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Too many requests. Please try again later.",
		"retry_after": result.RetryAfter,
	})
}
