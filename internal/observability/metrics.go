package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	gradingRunsTotal     *prometheus.CounterVec
	gradingDurationSec   *prometheus.HistogramVec
	assessmentsFinalized prometheus.Counter
	inconsistenciesTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the API and the
// grading engine.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hireloop_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hireloop_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "route"})

		gradingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hireloop_grading_runs_total",
			Help: "Question grading runs by final verdict.",
		}, []string{"verdict"})

		gradingDurationSec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hireloop_grading_duration_seconds",
			Help:    "End to end duration of one question grading run.",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		}, []string{"language"})

		assessmentsFinalized = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hireloop_assessments_finalized_total",
			Help: "Assessments explicitly submitted by candidates.",
		})

		inconsistenciesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hireloop_store_inconsistencies_total",
			Help: "Store updates that matched zero rows when one was expected.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, gradingRunsTotal, gradingDurationSec, assessmentsFinalized, inconsistenciesTotal)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// GradingRuns exposes the per-verdict grading counter.
func GradingRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingRunsTotal
}

// GradingDuration exposes the grading duration histogram.
func GradingDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return gradingDurationSec
}

// AssessmentsFinalized exposes the finalization counter.
func AssessmentsFinalized() prometheus.Counter {
	RegisterMetrics()
	return assessmentsFinalized
}

// StoreInconsistencies exposes the counter for zero-row store updates.
func StoreInconsistencies() prometheus.Counter {
	RegisterMetrics()
	return inconsistenciesTotal
}
