package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// habitability API.
type Metrics struct {
	SearchesTotal  prometheus.Counter
	SearchDuration prometheus.Histogram
	ScoresComputed *prometheus.CounterVec // labels: category

	// Upstream catalog metrics.
	SourceRequests *prometheus.CounterVec   // labels: source={nasa,simbad}, outcome={success,error,empty}
	SourceDuration *prometheus.HistogramVec // labels: source={nasa,simbad}

	// Imagery metrics.
	ImageLookups *prometheus.CounterVec // labels: source, result={found,missing,error}
	CutoutCache  *prometheus.CounterVec // labels: result={hit,miss}

	// Optional collaborator metrics.
	AnalysisRequests *prometheus.CounterVec // labels: outcome={success,error,unavailable}
	RecordsStored    prometheus.Counter
	RecordsPublished prometheus.Counter
}

// NewMetrics creates and registers all API metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exo_api",
			Name:      "searches_total",
			Help:      "Total planet searches served.",
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "exo_api",
			Name:      "search_duration_seconds",
			Help:      "End-to-end duration of one search, including upstream catalogs.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ScoresComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exo_api",
			Name:      "scores_computed_total",
			Help:      "Habitability scores computed by category.",
		}, []string{"category"}),
		SourceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exo_api",
			Name:      "source_requests_total",
			Help:      "Upstream catalog requests by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "exo_api",
			Name:      "source_duration_seconds",
			Help:      "Upstream catalog request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		ImageLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exo_api",
			Name:      "image_lookups_total",
			Help:      "Sky survey image lookups by source and result.",
		}, []string{"source", "result"}),
		CutoutCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exo_api",
			Name:      "cutout_cache_total",
			Help:      "Image cutout cache lookups by result.",
		}, []string{"result"}),
		AnalysisRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exo_api",
			Name:      "analysis_requests_total",
			Help:      "LLM analysis requests by outcome.",
		}, []string{"outcome"}),
		RecordsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exo_api",
			Name:      "records_stored_total",
			Help:      "Planet records persisted to the search history.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exo_api",
			Name:      "records_published_total",
			Help:      "Scored records published to the output topic.",
		}),
	}

	prometheus.MustRegister(
		m.SearchesTotal,
		m.SearchDuration,
		m.ScoresComputed,
		m.SourceRequests,
		m.SourceDuration,
		m.ImageLookups,
		m.CutoutCache,
		m.AnalysisRequests,
		m.RecordsStored,
		m.RecordsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SearchesTotal:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "exo_api", Name: "searches_total"}),
		SearchDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "exo_api", Name: "search_duration_seconds"}),
		ScoresComputed:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "exo_api", Name: "scores_computed_total"}, []string{"category"}),
		SourceRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "exo_api", Name: "source_requests_total"}, []string{"source", "outcome"}),
		SourceDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "exo_api", Name: "source_duration_seconds"}, []string{"source"}),
		ImageLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "exo_api", Name: "image_lookups_total"}, []string{"source", "result"}),
		CutoutCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "exo_api", Name: "cutout_cache_total"}, []string{"result"}),
		AnalysisRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "exo_api", Name: "analysis_requests_total"}, []string{"outcome"}),
		RecordsStored:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "exo_api", Name: "records_stored_total"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "exo_api", Name: "records_published_total"}),
	}
}
