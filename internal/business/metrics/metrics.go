package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the business module.
type Metrics struct {
	ProfilesSubmitted prometheus.Counter
	EvidenceUploaded  *prometheus.CounterVec
	RegistryLookups   *prometheus.CounterVec
	RegistryLatency   prometheus.Histogram
}

// New creates a new Metrics instance with all business module metrics registered.
func New() *Metrics {
	return &Metrics{
		ProfilesSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulsemarket_business_profiles_submitted_total",
			Help: "Total profile submissions (creates and merges)",
		}),
		EvidenceUploaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsemarket_business_evidence_uploaded_total",
			Help: "Total evidence uploads by channel",
		}, []string{"channel"}),
		RegistryLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsemarket_business_registry_lookups_total",
			Help: "Total registry lookups by result",
		}, []string{"result"}), // result: "found", "not_found", "error"
		RegistryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pulsemarket_business_registry_lookup_duration_seconds",
			Help:    "Duration of corporate registry lookups",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementProfilesSubmitted records a profile submission.
func (m *Metrics) IncrementProfilesSubmitted() {
	if m != nil {
		m.ProfilesSubmitted.Inc()
	}
}

// IncrementEvidenceUploaded records an evidence upload for a channel.
func (m *Metrics) IncrementEvidenceUploaded(channel string) {
	if m != nil {
		m.EvidenceUploaded.WithLabelValues(channel).Inc()
	}
}

// RecordRegistryLookup records a registry lookup outcome and duration.
func (m *Metrics) RecordRegistryLookup(result string, d time.Duration) {
	if m != nil {
		m.RegistryLookups.WithLabelValues(result).Inc()
		m.RegistryLatency.Observe(d.Seconds())
	}
}
