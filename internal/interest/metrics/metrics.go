package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks interest lifecycle activity.
type Metrics struct {
	ViewsCreated prometheus.Counter
	Transitions  *prometheus.CounterVec
	Conflicts    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ViewsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "interest_views_created_total",
			Help: "Interest edges created by first-time listing views.",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "interest_transitions_total",
			Help: "Committed interest status transitions by target status.",
		}, []string{"to"}),
		Conflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "interest_transition_conflicts_total",
			Help: "Interest transitions rejected as invalid or lost races.",
		}),
	}
}

func (m *Metrics) IncrementViewsCreated() {
	if m == nil {
		return
	}
	m.ViewsCreated.Inc()
}

func (m *Metrics) IncrementTransitions(to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) IncrementConflicts() {
	if m == nil {
		return
	}
	m.Conflicts.Inc()
}
