package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"truckrecruit/internal/errors"
	"truckrecruit/internal/model"
	"truckrecruit/internal/service"
)

// DashboardHandler serves the per-role dashboards.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get godoc
// @Summary Get the caller's dashboard
// @Description Returns a RecruiterDashboard, DriverDashboard or AdminDashboard depending on the caller's role.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.RecruiterDashboard
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var dashboard interface{}
	switch v.Role {
	case model.RoleRecruiter:
		dashboard, err = h.dashboardService.Recruiter(ctx, v.ID)
	case model.RoleDriver:
		dashboard, err = h.dashboardService.Driver(ctx, v.ID)
	case model.RoleAdmin:
		dashboard, err = h.dashboardService.Admin(ctx)
	default:
		err = errors.ErrForbidden
	}
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, dashboard)
}
