package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/storage"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

const serviceName = "helpdesk-simulator"

type HealthResponse struct {
	Status     string         `json:"status"`
	Timestamp  time.Time      `json:"timestamp"`
	Service    string         `json:"service"`
	Components map[string]any `json:"components"`
}

type HealthHandler struct {
	sessions storage.HealthChecker
	store    *scenario.Store
	logger   *slog.Logger
}

func NewHealthHandler(sessions storage.HealthChecker, store *scenario.Store, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
		store:    store,
		logger:   logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]any)
	overallStatus := "healthy"

	if err := h.sessions.Ping(ctx); err != nil {
		h.logger.Warn("Session store health check failed", "error", err)
		components["sessions"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["sessions"] = "healthy"
	}

	count := h.store.Len()
	scenarios := map[string]any{"count": count, "status": "healthy"}
	if count == 0 {
		scenarios["status"] = "empty"
		overallStatus = "degraded"
	}
	components["scenarios"] = scenarios

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, h.logger, statusCode, HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    serviceName,
		Components: components,
	})
}
