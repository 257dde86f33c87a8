package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/radiusauth/pkg/metrics"
)

// HTTPMetrics tracks Prometheus metrics for API requests.
//
// Methods handle a nil receiver, so a nil *HTTPMetrics is a no-op.
type HTTPMetrics struct {
	// Requests counts requests by route pattern, method and status code.
	Requests *prometheus.CounterVec

	// Duration tracks request handling time by route pattern and method.
	Duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers API metrics.
// A nil registerer returns nil.
func NewHTTPMetrics(registerer prometheus.Registerer) *HTTPMetrics {
	if registerer == nil {
		return nil
	}

	return &HTTPMetrics{
		Requests: metrics.Register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radiusauth_http_requests_total",
				Help: "Total API requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		)),
		Duration: metrics.Register(registerer, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "radiusauth_http_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		)),
	}
}

// Instrument records every request passing through the handler.
// Routes are labelled by their chi pattern, never by the raw path.
func (m *HTTPMetrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.Duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
