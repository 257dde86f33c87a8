package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewHTTPMetrics_NilRegisterer(t *testing.T) {
	m := NewHTTPMetrics(nil)
	if m != nil {
		t.Fatalf("Expected nil metrics, got %+v", m)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	w := httptest.NewRecorder()
	m.Instrument(next).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestHTTPMetrics_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/users/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/users/alice", "/users/bob", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("/users/{name}", "GET", "418")); got != 2 {
		t.Errorf("Expected 2 requests on the pattern, got %v", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Errorf("Expected 1 unmatched request, got %v", got)
	}
	if n := testutil.CollectAndCount(m.Duration); n != 2 {
		t.Errorf("Expected 2 duration series, got %d", n)
	}
}

func TestNewHTTPMetrics_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewHTTPMetrics(reg)
	second := NewHTTPMetrics(reg)

	first.Requests.WithLabelValues("/x", "GET", "200").Inc()
	if got := testutil.ToFloat64(second.Requests.WithLabelValues("/x", "GET", "200")); got != 1 {
		t.Errorf("Expected collectors to be shared, got %v", got)
	}
}
