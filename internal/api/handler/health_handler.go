package handler

import (
	"context"
	"customer-service/internal/api/handler/dto"
	"log/slog"
	"net/http"
)

type HealthChecker func(ctx context.Context) error

type HealthHandler struct {
	checkDB HealthChecker
	logger  *slog.Logger
}

func NewHealthHandler(checkDB HealthChecker, l *slog.Logger) *HealthHandler {
	if checkDB == nil {
		panic("database health check cannot be nil")
	}
	return &HealthHandler{checkDB: checkDB, logger: l.With("component", "HealthHandler")}
}

// Live handles GET /health
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Ready handles GET /health/ready
// @Summary Readiness probe
// @Description Reports whether the database is reachable.
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.checkDB(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "Readiness check failed", slog.Any("error", err))
		respondJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}
