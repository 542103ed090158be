// Package metrics exposes Prometheus counters for heatmap runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/homeforyou/internal/heatmap"
)

const namespace = "homeforyou"

// Run outcomes used as the "status" label.
const (
	StatusOK         = "ok"
	StatusBadRequest = "bad_request"
	StatusFailed     = "failed"
)

// Recorder owns a private registry so tests and multiple servers never
// collide on the default one.
type Recorder struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	duration     prometheus.Histogram
	observations *prometheus.CounterVec
	cellWrites   prometheus.Counter
	failed       *prometheus.CounterVec
}

// NewRecorder registers all heatmap metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Heatmap runs by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of successful heatmap runs.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		observations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_total",
			Help:      "Points of interest offered to the grid, by result.",
		}, []string{"result"}),
		cellWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cell_writes_total",
			Help:      "Decayed contributions written to cells.",
		}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "category_failures_total",
			Help:      "Categories skipped because their fetch failed.",
		}, []string{"category"}),
	}
	r.registry.MustRegister(r.runs, r.duration, r.observations, r.cellWrites, r.failed)
	return r
}

// RunFailed counts a run that ended without a report.
func (r *Recorder) RunFailed(status string) {
	r.runs.WithLabelValues(status).Inc()
}

// RunCompleted counts a successful run and its scorer stats.
func (r *Recorder) RunCompleted(elapsed time.Duration, stats heatmap.Stats, failedCategories []string) {
	r.runs.WithLabelValues(StatusOK).Inc()
	r.duration.Observe(elapsed.Seconds())
	r.observations.WithLabelValues(heatmap.Accepted.String()).Add(float64(stats.Applied))
	for reason, n := range stats.Rejected {
		r.observations.WithLabelValues(reason).Add(float64(n))
	}
	r.cellWrites.Add(float64(stats.CellWrites))
	for _, c := range failedCategories {
		r.failed.WithLabelValues(c).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
