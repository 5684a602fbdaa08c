package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/talx-hub/gopher-rewards/internal/api/dto"
	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/utils/logger"
)

const statusHealthy = "healthy"

type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

type HealthHandler struct {
	db HealthChecker
}

func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), model.DefaultTimeout)
	defer cancel()

	if err := h.db.CheckHealth(ctx); err != nil {
		logger.FromContext(ctx).LogAttrs(ctx,
			slog.LevelError,
			"storage is unavailable",
			slog.Any(model.KeyLoggerError, err),
		)
		writeJSON(w, r, http.StatusInternalServerError, dto.HealthResponse{Status: "unhealthy"})
		return
	}
	writeJSON(w, r, http.StatusOK, dto.HealthResponse{Status: statusHealthy})
}
