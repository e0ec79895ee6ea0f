// Package rest provides the HTTP health and metrics endpoints.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler provides HTTP health check endpoints.
type HealthHandler struct {
	serviceName string
	checks      map[string]func() string
	startedAt   time.Time
	logger      *slog.Logger
}

// NewHealthHandler creates a new HealthHandler. Readiness checks are
// registered per dependency via AddCheck.
func NewHealthHandler(serviceName string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		checks:      make(map[string]func() string),
		startedAt:   time.Now(),
		logger:      logger,
	}
}

// AddCheck registers a named readiness check. The check returns "ok" or an
// error description.
func (h *HealthHandler) AddCheck(name string, check func() string) {
	h.checks[name] = check
}

// healthResponse is the JSON response for health check endpoints.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// readinessResponse is the JSON response for the readiness endpoint.
type readinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// Liveness handles the liveness probe endpoint (GET /healthz).
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Service: h.serviceName,
		Uptime:  time.Since(h.startedAt).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Readiness handles the readiness probe endpoint (GET /readyz).
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(h.checks))
	overall := "ok"
	for name, check := range h.checks {
		result := check()
		checks[name] = result
		if result != "ok" {
			overall = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	resp := readinessResponse{
		Status:  overall,
		Service: h.serviceName,
		Checks:  checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// RegisterRoutes registers health check routes on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Liveness)
	mux.HandleFunc("GET /readyz", h.Readiness)
}
