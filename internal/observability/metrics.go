package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// weather aggregation service.
type Metrics struct {
	FetchRequests *prometheus.CounterVec // labels: entry={coords,city}, outcome={success,error}
	CacheLookups  *prometheus.CounterVec // labels: result={hit,miss}
	InflightJoins prometheus.Counter     // callers coalesced onto a pending fetch

	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={current,forecast}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint={current,forecast}

	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
	PublisherEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.CacheLookups,
		m.InflightJoins,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.SnapshotsPublished,
		m.PublishErrors,
		m.PublisherEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "fetch_requests_total",
			Help:      "Aggregator fetch operations by entry point and outcome.",
		}, []string{"entry", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "cache_lookups_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		InflightJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "inflight_joins_total",
			Help:      "Fetch calls that attached to an already pending fetch for the same key.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "upstream_requests_total",
			Help:      "Provider API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather",
			Name:      "upstream_request_duration_seconds",
			Help:      "Provider API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "snapshots_published_total",
			Help:      "Fresh snapshots published to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "publish_errors_total",
			Help:      "Failed snapshot publish attempts.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather",
			Name:      "publisher_enabled",
			Help:      "1 when snapshot publishing is enabled, 0 otherwise.",
		}),
	}
}
