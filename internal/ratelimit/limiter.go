package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"pulsemarket/internal/ratelimit/metrics"
)

// Limits maps each endpoint class to its requests-per-window budget.
type Limits struct {
	Read   int
	Write  int
	Window time.Duration
}

// DefaultLimits returns the budgets used when none are configured.
func DefaultLimits() Limits {
	return Limits{Read: 300, Write: 60, Window: time.Minute}
}

func (l Limits) forClass(class EndpointClass) int {
	if class == ClassWrite {
		return l.Write
	}
	return l.Read
}

// Limiter answers rate limit checks against the primary store. When the
// primary keeps failing it opens a circuit and serves checks from an
// in-memory fallback so traffic stays limited during a store outage.
type Limiter struct {
	primary  BucketStore
	fallback BucketStore
	breaker  *circuitBreaker
	limits   Limits
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewLimiter wires a limiter over the given primary store. A nil
// primary runs everything through the in-memory fallback.
func NewLimiter(primary BucketStore, limits Limits, logger *slog.Logger, m *metrics.Metrics) *Limiter {
	if limits.Window <= 0 {
		limits.Window = time.Minute
	}
	if limits.Read <= 0 {
		limits.Read = DefaultLimits().Read
	}
	if limits.Write <= 0 {
		limits.Write = DefaultLimits().Write
	}
	return &Limiter{
		primary:  primary,
		fallback: NewInMemoryBucketStore(),
		breaker:  newCircuitBreaker(),
		limits:   limits,
		logger:   logger,
		metrics:  m,
	}
}

// Check records one request for the caller and reports the verdict. The
// second return value is true when the check ran in degraded mode.
func (l *Limiter) Check(ctx context.Context, caller string, class EndpointClass) (*Result, bool, error) {
	key := Key(caller, class)
	limit := l.limits.forClass(class)

	if l.primary == nil {
		result, err := l.fallback.Allow(ctx, key, limit, l.limits.Window)
		return result, false, err
	}

	if l.breaker.IsOpen() {
		return l.checkDegraded(ctx, key, limit, class)
	}

	result, err := l.primary.Allow(ctx, key, limit, l.limits.Window)
	if err != nil {
		if l.breaker.RecordFailure() {
			l.logger.WarnContext(ctx, "rate limit store unavailable, switching to in-memory fallback",
				"error", err,
			)
		}
		return l.checkDegraded(ctx, key, limit, class)
	}
	l.breaker.RecordSuccess()
	l.observe(class, result)
	return result, false, nil
}

func (l *Limiter) checkDegraded(ctx context.Context, key string, limit int, class EndpointClass) (*Result, bool, error) {
	l.metrics.IncrementFallbackChecks()

	// Probe the primary occasionally so the circuit can close again.
	if l.breaker.IsOpen() {
		if result, err := l.primary.Allow(ctx, key, limit, l.limits.Window); err == nil {
			if l.breaker.RecordSuccess() {
				l.logger.InfoContext(ctx, "rate limit store recovered, leaving fallback mode")
				l.observe(class, result)
				return result, false, nil
			}
		} else {
			l.breaker.RecordFailure()
		}
	}

	result, err := l.fallback.Allow(ctx, key, limit, l.limits.Window)
	if err != nil {
		return nil, true, err
	}
	l.observe(class, result)
	return result, true, nil
}

func (l *Limiter) observe(class EndpointClass, result *Result) {
	outcome := "allowed"
	if !result.Allowed {
		outcome = "limited"
	}
	l.metrics.IncrementDecisions(string(class), outcome)
}
