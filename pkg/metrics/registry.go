// Package metrics owns the process-wide Prometheus registry.
//
// Metrics are opt-in. Until InitRegistry is called, IsEnabled reports false
// and components construct nil metric structs, whose methods are no-ops.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry creates the registry with Go runtime and process collectors.
// Calling it again returns the existing registry.
func InitRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()

	if registry != nil {
		return registry
	}

	registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// GetRegistry returns the registry, or nil if metrics are disabled.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}

// Registerer returns the registry as a prometheus.Registerer, or nil when
// metrics are disabled. The typed nil is avoided so callers can compare
// against nil.
func Registerer() prometheus.Registerer {
	if reg := GetRegistry(); reg != nil {
		return reg
	}
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
// It returns 404 for every request while metrics are disabled.
func Handler() http.Handler {
	reg := GetRegistry()
	if reg == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Register registers c with reg, returning the already registered collector
// when an identical one exists. This lets components be rebuilt without
// failing on duplicate registration.
func Register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// reset clears the registry. Tests only.
func reset() {
	mu.Lock()
	registry = nil
	mu.Unlock()
}
