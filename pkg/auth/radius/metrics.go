package radius

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/radiusauth/pkg/metrics"
)

// Failure reasons recorded by Metrics and written to logs.
const (
	ReasonReject    = "reject"
	ReasonChallenge = "challenge"
	ReasonUnknown   = "unexpected_code"
	ReasonTimeout   = "timeout"
	ReasonCanceled  = "canceled"
	ReasonTransport = "transport"
	ReasonRequest   = "request"
)

// Metrics tracks Prometheus metrics for the RADIUS provider.
//
// All metrics use the "radiusauth_radius_" prefix. Methods handle a nil
// receiver, so a nil *Metrics is a no-op when metrics are disabled.
//
// Metrics tracked:
//   - Authentication attempts by outcome
//   - Failures by reason
//   - Exchange duration by result
type Metrics struct {
	// Attempts counts authentication attempts by outcome.
	// Labels: outcome=[pass, fail, abstain]
	Attempts *prometheus.CounterVec

	// Failures counts failed attempts by reason.
	// Labels: reason=[reject, challenge, unexpected_code, timeout, canceled, transport, request]
	Failures *prometheus.CounterVec

	// ExchangeDuration tracks the time spent waiting for the server.
	// Labels: result=[Access-Accept, Access-Reject, ..., timeout, transport]
	ExchangeDuration *prometheus.HistogramVec
}

// NewMetrics creates the RADIUS metrics and registers them with registerer.
// A nil registerer returns nil, which disables recording.
// Calling it again with the same registerer returns the registered collectors.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		return nil
	}

	return &Metrics{
		Attempts: metrics.Register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radiusauth_radius_attempts_total",
				Help: "Total RADIUS authentication attempts by outcome",
			},
			[]string{"outcome"},
		)),
		Failures: metrics.Register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radiusauth_radius_failures_total",
				Help: "Total failed RADIUS authentication attempts by reason",
			},
			[]string{"reason"},
		)),
		ExchangeDuration: metrics.Register(registerer, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "radiusauth_radius_exchange_duration_seconds",
				Help:    "RADIUS request/reply exchange duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)),
	}
}

// RecordAttempt records the outcome of one authentication attempt.
func (m *Metrics) RecordAttempt(outcome string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(outcome).Inc()
}

// RecordFailure records why an attempt failed.
func (m *Metrics) RecordFailure(reason string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(reason).Inc()
}

// ObserveExchange records how long the server took to answer.
//
// Parameters:
//   - result: reply code name, or the failure reason when no reply arrived
//   - duration: time from first transmission to reply or error
func (m *Metrics) ObserveExchange(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ExchangeDuration.WithLabelValues(result).Observe(duration.Seconds())
}
