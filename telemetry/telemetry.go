// Package telemetry records pipeline metrics in Prometheus form. A nil
// *Telemetry is valid and records nothing, so callers never guard hooks.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Telemetry struct {
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
}

// New registers the pipeline metrics on reg (the default registerer when
// nil) and returns the recording handle.
func New(reg prometheus.Registerer) *Telemetry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Telemetry{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "researcher_runs_total",
			Help: "Completed pipeline runs by status",
		}, []string{"status"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "researcher_run_duration_seconds",
			Help:    "Wall time of full pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "researcher_stage_duration_seconds",
			Help:    "Wall time per pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"stage"}),
		stageFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "researcher_stage_failures_total",
			Help: "Stage executions that aborted the run",
		}, []string{"stage"}),
	}
}

func (t *Telemetry) RecordRun(status string, d time.Duration) {
	if t == nil {
		return
	}
	t.runs.WithLabelValues(status).Inc()
	t.runDuration.Observe(d.Seconds())
}

func (t *Telemetry) RecordStage(stage string, d time.Duration, failed bool) {
	if t == nil {
		return
	}
	t.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if failed {
		t.stageFailures.WithLabelValues(stage).Inc()
	}
}
