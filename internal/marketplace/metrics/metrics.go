package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks marketplace browse activity.
type Metrics struct {
	Queries        *prometheus.CounterVec
	SnapshotLookup *prometheus.CounterVec
	ViewsRecorded  prometheus.Counter
	ListingCount   prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Queries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_queries_total",
			Help: "Marketplace browse queries by kind (fresh or snapshot).",
		}, []string{"kind"}),
		SnapshotLookup: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_snapshot_lookups_total",
			Help: "Snapshot token lookups by result.",
		}, []string{"result"}),
		ViewsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_views_recorded_total",
			Help: "First-time listing views forwarded to the interest tracker.",
		}),
		ListingCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "marketplace_listings",
			Help: "Current number of published listings.",
		}),
	}
}

func (m *Metrics) IncrementQueries(kind string) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordSnapshotLookup(result string) {
	if m == nil {
		return
	}
	m.SnapshotLookup.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementViewsRecorded() {
	if m == nil {
		return
	}
	m.ViewsRecorded.Inc()
}

func (m *Metrics) SetListingCount(count int) {
	if m == nil {
		return
	}
	m.ListingCount.Set(float64(count))
}
