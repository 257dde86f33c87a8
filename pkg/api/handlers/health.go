package handlers

import (
	"net/http"

	"github.com/marmos91/radiusauth/pkg/auth"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Is at least one primary provider configured?
type HealthHandler struct {
	manager *auth.Manager
}

// NewHealthHandler creates a new health handler.
//
// The manager may be nil, in which case the readiness check reports
// unhealthy.
func NewHealthHandler(manager *auth.Manager) *HealthHandler {
	return &HealthHandler{manager: manager}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK as long as the HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "radiusauth",
	}))
}

// Readiness handles GET /health/ready - readiness probe.
//
// The RADIUS server is not contacted: an Access-Request needs real
// credentials. Readiness only checks that providers are registered.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.manager == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("authentication manager not initialized"))
		return
	}

	providers := h.manager.Providers()
	if len(providers) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("no primary providers configured"))
		return
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]any{
		"providers": names,
	}))
}
