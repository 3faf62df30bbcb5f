package runner

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeusync/behavior/internal/core/behavior"
)

// Metrics counts tick outcomes and run lengths.
type Metrics struct {
	Ticks    *prometheus.CounterVec
	RunTicks prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "behavior_ticks_total",
				Help: "Total number of behavior tree ticks by resulting status",
			},
			[]string{"status"},
		),
		RunTicks: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "behavior_run_ticks",
				Help:    "Number of ticks a run took to finish",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Ticks, m.RunTicks)
	}
	return m
}

func (m *Metrics) observeTick(status behavior.Status) {
	m.Ticks.WithLabelValues(status.String()).Inc()
}

func (m *Metrics) observeRun(ticks int) {
	m.RunTicks.Observe(float64(ticks))
}
