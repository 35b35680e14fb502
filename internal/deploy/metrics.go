package deploy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks deployment outcomes for a run. A nil *Metrics is valid
// and records nothing, so metrics stay optional for library callers.
type Metrics struct {
	attemptsTotal  *prometheus.CounterVec
	targetDuration prometheus.Histogram
	targetsTotal   *prometheus.GaugeVec
}

// NewMetrics creates deployment metrics registered against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		attemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ztp",
				Subsystem: "deploy",
				Name:      "attempts_total",
				Help:      "Total number of device apply attempts by target and result",
			},
			[]string{"target", "result"},
		),
		targetDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "ztp",
				Subsystem: "deploy",
				Name:      "target_duration_seconds",
				Help:      "Time from a target entering in_progress to reaching a terminal state",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.5min
			},
		),
		targetsTotal: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "ztp",
				Subsystem: "deploy",
				Name:      "targets",
				Help:      "Number of targets by terminal state in the current run",
			},
			[]string{"state"},
		),
	}
}

func (m *Metrics) observeAttempt(target string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.attemptsTotal.WithLabelValues(target, result).Inc()
}

func (m *Metrics) observeResult(res Result) {
	if m == nil {
		return
	}
	m.targetDuration.Observe(res.Duration.Seconds())
	m.targetsTotal.WithLabelValues(string(res.State)).Inc()
}

func (m *Metrics) observeSkip(res Result) {
	if m == nil {
		return
	}
	m.targetsTotal.WithLabelValues(string(res.State)).Inc()
}
