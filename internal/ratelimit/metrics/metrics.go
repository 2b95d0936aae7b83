package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks rate limiter decisions and degraded-mode activity.
type Metrics struct {
	Decisions      *prometheus.CounterVec
	FallbackChecks prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_decisions_total",
			Help: "Rate limit checks by endpoint class and outcome.",
		}, []string{"class", "outcome"}),
		FallbackChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ratelimit_fallback_checks_total",
			Help: "Checks served by the in-memory fallback while the primary store was unavailable.",
		}),
	}
}

func (m *Metrics) IncrementDecisions(class, outcome string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(class, outcome).Inc()
}

func (m *Metrics) IncrementFallbackChecks() {
	if m == nil {
		return
	}
	m.FallbackChecks.Inc()
}
