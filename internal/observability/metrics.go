package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map pipeline.
type Metrics struct {
	Fetches          *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration    prometheus.Histogram
	FeaturesFetched  prometheus.Counter
	MarkersRendered  prometheus.Counter
	MalformedSkipped prometheus.Counter
	RenderErrors     prometheus.Counter
	LastRunMarkers   prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "fetches_total",
			Help:      "Feed fetches by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a feed fetch, including download and envelope decoding.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FeaturesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "features_fetched_total",
			Help:      "Total features read from the feed.",
		}),
		MarkersRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "markers_rendered_total",
			Help:      "Total markers handed to renderers.",
		}),
		MalformedSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "malformed_features_total",
			Help:      "Total features skipped because a required field was missing or invalid.",
		}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "render_errors_total",
			Help:      "Total renderer failures.",
		}),
		LastRunMarkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "last_run_markers",
			Help:      "Markers produced by the most recent pipeline run.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "geocode_enabled",
			Help:      "1 when place enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.Fetches,
		m.FetchDuration,
		m.FeaturesFetched,
		m.MarkersRendered,
		m.MalformedSkipped,
		m.RenderErrors,
		m.LastRunMarkers,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Fetches:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "fetches_total"}, []string{"outcome"}),
		FetchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_map", Name: "fetch_duration_seconds"}),
		FeaturesFetched:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "features_fetched_total"}),
		MarkersRendered:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "markers_rendered_total"}),
		MalformedSkipped:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "malformed_features_total"}),
		RenderErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "render_errors_total"}),
		LastRunMarkers:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "last_run_markers"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_map", Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "geocode_enabled"}),
	}
}
