package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcome label values for FetchesTotal.
const (
	OutcomeSuccess          = "success"
	OutcomeInputError       = "input_error"
	OutcomeTransportError   = "transport_error"
	OutcomeStatusError      = "status_error"
	OutcomeParseError       = "parse_error"
	OutcomeRejectedInFlight = "rejected_in_flight"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard fetch cycle.
type Metrics struct {
	FetchesTotal      *prometheus.CounterVec // labels: outcome
	FetchDuration     prometheus.Histogram
	RecordsPerFetch   prometheus.Histogram
	OrchestratorState prometheus.Gauge // 0=idle 1=validating 2=fetching 3=success 4=failed

	// Upstream prediction API metrics.
	PredictorRequests    *prometheus.CounterVec // labels: outcome={success,error}
	PredictorAPIDuration prometheus.Histogram
	PredictorCache       *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all dashboard metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_dashboard",
			Name:      "fetches_total",
			Help:      "Prediction fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crime_dashboard",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a complete validate-fetch-classify cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsPerFetch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crime_dashboard",
			Name:      "records_per_fetch",
			Help:      "Number of prediction records in a successful response.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 200},
		}),
		OrchestratorState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crime_dashboard",
			Name:      "orchestrator_state",
			Help:      "Current fetch state: 0=idle 1=validating 2=fetching 3=success 4=failed.",
		}),
		PredictorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_dashboard",
			Name:      "predictor_requests_total",
			Help:      "Upstream prediction API requests by outcome.",
		}, []string{"outcome"}),
		PredictorAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crime_dashboard",
			Name:      "predictor_api_duration_seconds",
			Help:      "Upstream prediction API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		PredictorCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_dashboard",
			Name:      "predictor_cache_total",
			Help:      "Prediction response cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.FetchesTotal,
		m.FetchDuration,
		m.RecordsPerFetch,
		m.OrchestratorState,
		m.PredictorRequests,
		m.PredictorAPIDuration,
		m.PredictorCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchesTotal:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crime_dashboard", Name: "fetches_total"}, []string{"outcome"}),
		FetchDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crime_dashboard", Name: "fetch_duration_seconds"}),
		RecordsPerFetch:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crime_dashboard", Name: "records_per_fetch"}),
		OrchestratorState:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crime_dashboard", Name: "orchestrator_state"}),
		PredictorRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crime_dashboard", Name: "predictor_requests_total"}, []string{"outcome"}),
		PredictorAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crime_dashboard", Name: "predictor_api_duration_seconds"}),
		PredictorCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crime_dashboard", Name: "predictor_cache_total"}, []string{"result"}),
	}
}
