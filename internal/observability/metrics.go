package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the feed
// service.
type Metrics struct {
	FeedRequests      *prometheus.CounterVec // labels: outcome={success,validation_error,upstream_error,schema_error,error}
	DetailRequests    *prometheus.CounterVec // labels: outcome={success,not_found,validation_error,upstream_error,schema_error,error}
	MergeRequests     prometheus.Counter
	ObjectsAggregated prometheus.Counter
	ServiceReady      prometheus.Gauge

	// Upstream client metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={feed,lookup}, outcome={success,not_found,rate_limited,error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint={feed,lookup}

	// Response cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss,stale}

	// Favorites metrics.
	FavoriteOps *prometheus.CounterVec // labels: op={add,remove,list,check}, outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosmic_event",
			Name:      "feed_requests_total",
			Help:      "Feed aggregation requests by outcome.",
		}, []string{"outcome"}),
		DetailRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosmic_event",
			Name:      "detail_requests_total",
			Help:      "Object detail requests by outcome.",
		}, []string{"outcome"}),
		MergeRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cosmic_event",
			Name:      "merge_requests_total",
			Help:      "Total incremental feed merge operations.",
		}),
		ObjectsAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cosmic_event",
			Name:      "objects_aggregated_total",
			Help:      "Total normalized objects produced by feed aggregation.",
		}),
		ServiceReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cosmic_event",
			Name:      "service_ready",
			Help:      "1 once the first upstream fetch has succeeded, 0 before.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosmic_event",
			Name:      "upstream_requests_total",
			Help:      "NeoWs API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cosmic_event",
			Name:      "upstream_request_duration_seconds",
			Help:      "NeoWs API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosmic_event",
			Name:      "cache_lookups_total",
			Help:      "Feed response cache lookups by result.",
		}, []string{"result"}),
		FavoriteOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosmic_event",
			Name:      "favorite_ops_total",
			Help:      "Favorite store operations by op and outcome.",
		}, []string{"op", "outcome"}),
	}

	prometheus.MustRegister(
		m.FeedRequests,
		m.DetailRequests,
		m.MergeRequests,
		m.ObjectsAggregated,
		m.ServiceReady,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.FavoriteOps,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FeedRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cosmic_event", Name: "feed_requests_total"}, []string{"outcome"}),
		DetailRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cosmic_event", Name: "detail_requests_total"}, []string{"outcome"}),
		MergeRequests:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cosmic_event", Name: "merge_requests_total"}),
		ObjectsAggregated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cosmic_event", Name: "objects_aggregated_total"}),
		ServiceReady:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "cosmic_event", Name: "service_ready"}),
		UpstreamRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cosmic_event", Name: "upstream_requests_total"}, []string{"endpoint", "outcome"}),
		UpstreamDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "cosmic_event", Name: "upstream_request_duration_seconds"}, []string{"endpoint"}),
		CacheLookups:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cosmic_event", Name: "cache_lookups_total"}, []string{"result"}),
		FavoriteOps:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cosmic_event", Name: "favorite_ops_total"}, []string{"op", "outcome"}),
	}
}
