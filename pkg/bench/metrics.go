package bench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports benchmark measurements to Prometheus
type Metrics struct {
	// runDuration tracks the wall-clock time of a single engine run
	runDuration *prometheus.HistogramVec
	// runIterations tracks the iterations needed by a single engine run
	runIterations *prometheus.HistogramVec
	// runs counts engine runs by outcome (converged, terminated, error)
	runs *prometheus.CounterVec
	// footprint is the estimated size of the last graph and rank vector
	footprint *prometheus.GaugeVec
}

// NewMetrics registers the benchmark collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pagerank_run_duration_seconds",
			Help:    "PageRank run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12), // 10µs to ~40s
		}, []string{"backend", "container"}),
		runIterations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pagerank_run_iterations",
			Help:    "Iterations per PageRank run",
			Buckets: []float64{1, 5, 10, 20, 40, 60, 80, 100, 200},
		}, []string{"backend", "container"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pagerank_runs_total",
			Help: "Total PageRank runs by outcome",
		}, []string{"backend", "container", "outcome"}),
		footprint: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pagerank_footprint_bytes",
			Help: "Estimated size of the last measured structure",
		}, []string{"structure", "kind"}),
	}
}

func (m *Metrics) observeRun(backend, container, outcome string, seconds float64, iterations int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(backend, container, outcome).Inc()
	if outcome == outcomeError {
		return
	}
	m.runDuration.WithLabelValues(backend, container).Observe(seconds)
	m.runIterations.WithLabelValues(backend, container).Observe(float64(iterations))
}

func (m *Metrics) observeFootprint(backend, container string, graphBytes, rankBytes int) {
	if m == nil {
		return
	}
	m.footprint.WithLabelValues("graph", backend).Set(float64(graphBytes))
	m.footprint.WithLabelValues("ranks", container).Set(float64(rankBytes))
}
