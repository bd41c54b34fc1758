package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"truckrecruit/internal/health"
)

// StatusReporter returns the latest health round.
type StatusReporter interface {
	Status() health.Status
}

// HealthHandler serves liveness and dependency health.
type HealthHandler struct {
	monitor StatusReporter
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(monitor StatusReporter) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// Healthz godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} health.Status
// @Failure 503 {object} health.Status
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c echo.Context) error {
	status := h.monitor.Status()
	if !status.Healthy {
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
