package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// ConnectionTester runs a database round-trip and reports success.
type ConnectionTester interface {
	TestConnection(ctx context.Context) bool
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db      HealthChecker
	cache   HealthChecker
	conn    ConnectionTester
	service string
	version string
}

// HealthOptions configures a HealthHandler.
// Leave DB, Cache or Conn nil when the dependency is not configured.
type HealthOptions struct {
	DB      HealthChecker
	Cache   HealthChecker
	Conn    ConnectionTester
	Service string
	Version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(opts HealthOptions) *HealthHandler {
	return &HealthHandler{
		db:      opts.DB,
		cache:   opts.Cache,
		conn:    opts.Conn,
		service: opts.Service,
		version: opts.Version,
	}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// ReadinessResponse is the readiness payload.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DBTestResponse is the /db-test payload.
type DBTestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health is a liveness probe endpoint with no dependency checks.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: h.service,
		Version: h.version,
	})
}

// Readyz checks all dependencies and returns 200 only if all are healthy.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	check := func(name string, c HealthChecker) {
		if c == nil {
			checks[name] = "not configured"
			return
		}
		if err := c.Ping(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}

	check("postgres", h.db)
	check("redis", h.cache)

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, ReadinessResponse{
		Status: status,
		Checks: checks,
	})
}

// DBTest reports whether a database round-trip succeeds.
// It always answers 200; the outcome is in the body.
//
// GET /db-test
func (h *HealthHandler) DBTest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.conn != nil && h.conn.TestConnection(ctx) {
		writeJSON(w, http.StatusOK, DBTestResponse{Status: "ok", Message: "Database connection successful"})
		return
	}
	writeJSON(w, http.StatusOK, DBTestResponse{Status: "error", Message: "Database connection failed"})
}
