package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the scoring module.
type Metrics struct {
	// Oracle call latencies by oracle
	OracleLatency *prometheus.HistogramVec

	// Scoring run outcomes by status
	RunOutcome *prometheus.CounterVec

	// Bounded retries triggered by evidence changing mid-run
	ConsistencyRetries prometheus.Counter

	// Overall scoring run latency
	RunLatency prometheus.Histogram
}

// New creates a new Metrics instance with all scoring module metrics registered.
func New() *Metrics {
	return &Metrics{
		OracleLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulsemarket_scoring_oracle_duration_seconds",
			Help:    "Duration of oracle calls by oracle",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"oracle"}), // oracle: "document", "video", "bank"

		RunOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsemarket_scoring_runs_total",
			Help: "Total scoring runs by outcome status",
		}, []string{"status"}), // status: "verified", "failed", "error"

		ConsistencyRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulsemarket_scoring_consistency_retries_total",
			Help: "Scoring re-runs triggered by evidence changing mid-run",
		}),

		RunLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pulsemarket_scoring_run_duration_seconds",
			Help:    "Duration of full scoring runs including oracle calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveOracleLatency records the duration of one oracle call.
func (m *Metrics) ObserveOracleLatency(oracle string, d time.Duration) {
	if m != nil {
		m.OracleLatency.WithLabelValues(oracle).Observe(d.Seconds())
	}
}

// IncrementRunOutcome records a scoring run outcome.
func (m *Metrics) IncrementRunOutcome(status string) {
	if m != nil {
		m.RunOutcome.WithLabelValues(status).Inc()
	}
}

// IncrementConsistencyRetries records an optimistic-commit retry.
func (m *Metrics) IncrementConsistencyRetries() {
	if m != nil {
		m.ConsistencyRetries.Inc()
	}
}

// ObserveRunLatency records the total scoring run duration.
func (m *Metrics) ObserveRunLatency(d time.Duration) {
	if m != nil {
		m.RunLatency.Observe(d.Seconds())
	}
}
