package handlers

import (
	"context"
	"net/http"

	"listkeeper/logging"
)

// HealthChecker reports storage health. *database.Database satisfies it.
type HealthChecker interface {
	Health(ctx context.Context) (map[string]interface{}, error)
}

// SystemHandlers serves operational endpoints.
type SystemHandlers struct {
	health HealthChecker
	logger *logging.Logger
}

// NewSystemHandlers creates system handlers.
func NewSystemHandlers(health HealthChecker) *SystemHandlers {
	return &SystemHandlers{
		health: health,
		logger: logging.Default().WithComponent("system_handler"),
	}
}

// Health reports database connectivity and pool statistics
func (h *SystemHandlers) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.health.Health(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Health check failed", "error", err)
		writeJSON(w, h.logger, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
		})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"database": stats,
	})
}
