// Package metrics exposes Prometheus instruments for analysis runs.
//
// All Record* methods are safe to call on a nil *Metrics, so components
// built without a registry need no special casing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RunsTotal          *prometheus.CounterVec
	StageSeconds       *prometheus.HistogramVec
	ExtractionsTotal   *prometheus.CounterVec
	ExternalCallsTotal *prometheus.CounterVec
	RunsInFlight       prometheus.Gauge
}

// New registers the metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetassist_analysis_runs_total",
				Help: "Analysis runs by outcome",
			},
			[]string{"outcome"},
		),
		StageSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetassist_stage_duration_seconds",
				Help:    "Time spent in each analysis stage",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"stage"},
		),
		ExtractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetassist_extractions_total",
				Help: "Agenda document extractions by category and outcome",
			},
			[]string{"category", "outcome"},
		),
		ExternalCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetassist_external_calls_total",
				Help: "Calls to transcription and completion backends",
			},
			[]string{"backend", "status"},
		),
		RunsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "meetassist_runs_in_flight",
				Help: "Analysis runs currently executing",
			},
		),
	}
}

func (m *Metrics) RecordRun(outcome string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) RecordExtraction(category, outcome string) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(category, outcome).Inc()
}

func (m *Metrics) RecordExternalCall(backend string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ExternalCallsTotal.WithLabelValues(backend, status).Inc()
}

func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.RunsInFlight.Inc()
}

func (m *Metrics) RunFinished() {
	if m == nil {
		return
	}
	m.RunsInFlight.Dec()
}
