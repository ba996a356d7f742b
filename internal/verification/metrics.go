package verification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the verification-specific Prometheus metrics.
type Metrics struct {
	Decisions *prometheus.CounterVec
	Duration  prometheus.Histogram
	Conflicts prometheus.Counter
}

// NewMetrics registers the verification metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certvault_verifications_total",
			Help: "Verification decisions by outcome.",
		}, []string{"outcome"}),
		Duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certvault_verification_duration_seconds",
			Help:    "End-to-end verification latency including the analysis delay.",
			Buckets: []float64{0.5, 1, 2, 2.5, 3, 5, 10},
		}),
		Conflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certvault_verification_conflicts_total",
			Help: "Verifications aborted because the certificate changed concurrently.",
		}),
	}
}

func (m *Metrics) IncDecision(outcome string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDuration(seconds float64) {
	if m == nil {
		return
	}
	m.Duration.Observe(seconds)
}

func (m *Metrics) IncConflict() {
	if m == nil {
		return
	}
	m.Conflicts.Inc()
}
