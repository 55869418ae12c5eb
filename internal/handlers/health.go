package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nigerian-law-ai/internal/contextutil"
)

// IndexStatus reports whether the vector index loaded.
type IndexStatus interface {
	Available() bool
}

// GeneratorPinger checks that the language model server is reachable.
type GeneratorPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	index              IndexStatus
	generator          GeneratorPinger
	healthCheckTimeout time.Duration
	now                func() time.Time
}

// NewHealthHandler creates a new HealthHandler. Either dependency may be nil,
// which reports that check as failing.
func NewHealthHandler(index IndexStatus, generator GeneratorPinger) *HealthHandler {
	return &HealthHandler{
		index:              index,
		generator:          generator,
		healthCheckTimeout: 5 * time.Second,
		now:                time.Now,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results keyed by vector_index and generator
	Checks map[string]string `json:"checks"`

	// List of issues (only present if unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// swagger:route GET /api/health healthCheck
//
// # Health check endpoint
//
// Returns 200 OK if the vector index and generator are ready, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.index != nil && h.index.Available() {
		checks["vector_index"] = "ok"
	} else {
		checks["vector_index"] = "error"
		issues = append(issues, "vector_index_unavailable")
	}

	if h.generator == nil {
		checks["generator"] = "error"
		issues = append(issues, "generator_unavailable")
	} else if err := h.generator.Ping(checkCtx); err != nil {
		logger.WarnContext(ctx, "generator health check failed", "error", err)
		checks["generator"] = "error"
		issues = append(issues, "generator_unavailable")
	} else {
		checks["generator"] = "ok"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
