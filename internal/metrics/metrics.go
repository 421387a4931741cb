// Package metrics exposes prometheus instrumentation for the HTTP gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request counts and latencies for outgoing backend calls.
// A nil *Metrics is valid and records nothing, so callers never need to
// guard their instrumentation sites.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// New creates gateway metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend requests by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Backend request round-trip latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "gateway",
			Name:      "requests_in_flight",
			Help:      "Backend requests currently outstanding.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.inFlight)
	return m
}

// RecordRequest records a completed request with its outcome label.
func (m *Metrics) RecordRequest(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// IncInFlight marks one more outstanding request.
func (m *Metrics) IncInFlight() {
	if m != nil {
		m.inFlight.Inc()
	}
}

// DecInFlight marks one outstanding request as settled.
func (m *Metrics) DecInFlight() {
	if m != nil {
		m.inFlight.Dec()
	}
}
