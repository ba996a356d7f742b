package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the platform-level Prometheus metrics.
type Metrics struct {
	ProfilesCreated        prometheus.Counter
	CertificatesSubmitted  prometheus.Counter
	CertificatesDeleted    prometheus.Counter
	RequestDuration        *prometheus.HistogramVec
	AuthFailures           prometheus.Counter
	AuditEventsPublished   prometheus.Counter
	AuditPublishFailures   prometheus.Counter
}

// New creates and registers all platform metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ProfilesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certvault_profiles_created_total",
			Help: "Total number of profiles created.",
		}),
		CertificatesSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certvault_certificates_submitted_total",
			Help: "Total number of certificates submitted.",
		}),
		CertificatesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certvault_certificates_deleted_total",
			Help: "Total number of certificates deleted by their owners.",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certvault_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certvault_auth_failures_total",
			Help: "Total number of failed sign-in or token validations.",
		}),
		AuditEventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certvault_audit_events_published_total",
			Help: "Audit events successfully mirrored to Kafka.",
		}),
		AuditPublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certvault_audit_publish_failures_total",
			Help: "Audit events that failed to publish and will be retried.",
		}),
	}
}

// IncProfilesCreated increments the profile counter. Nil-safe so services
// can run without metrics wired (tests).
func (m *Metrics) IncProfilesCreated() {
	if m == nil {
		return
	}
	m.ProfilesCreated.Inc()
}

func (m *Metrics) IncCertificatesSubmitted() {
	if m == nil {
		return
	}
	m.CertificatesSubmitted.Inc()
}

func (m *Metrics) IncCertificatesDeleted() {
	if m == nil {
		return
	}
	m.CertificatesDeleted.Inc()
}

func (m *Metrics) IncAuthFailures() {
	if m == nil {
		return
	}
	m.AuthFailures.Inc()
}

func (m *Metrics) IncAuditPublished() {
	if m == nil {
		return
	}
	m.AuditEventsPublished.Inc()
}

func (m *Metrics) IncAuditPublishFailures() {
	if m == nil {
		return
	}
	m.AuditPublishFailures.Inc()
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, status).Observe(seconds)
}
