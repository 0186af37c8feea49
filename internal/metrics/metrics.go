// Package metrics records per-stage timings for one bootstrap run. Each run
// owns its registry; nothing is registered globally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// RunMetrics collects stage metrics for a single run.
type RunMetrics struct {
	registry      *prometheus.Registry
	stageDuration *prometheus.HistogramVec
	stageTotal    *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

// New creates a RunMetrics with its own registry.
func New() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spsite_stage_duration_seconds",
				Help:    "Duration of bootstrap pipeline stages in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage"},
		),
		stageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spsite_stage_total",
				Help: "Bootstrap pipeline stages executed, by outcome",
			},
			[]string{"stage", "status"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spsite_last_run_success",
			Help: "1 if the last run printed the site title, 0 otherwise",
		}),
	}

	m.registry.MustRegister(m.stageDuration, m.stageTotal, m.lastRun)
	return m
}

// Observe records the outcome of one stage.
func (m *RunMetrics) Observe(stage string, d time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	m.stageTotal.WithLabelValues(stage, status).Inc()
}

// Finish records the overall outcome.
func (m *RunMetrics) Finish(err error) {
	if err != nil {
		m.lastRun.Set(0)
		return
	}
	m.lastRun.Set(1)
}

// Registry exposes the underlying registry.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format to path,
// for node_exporter's textfile collector.
func (m *RunMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
