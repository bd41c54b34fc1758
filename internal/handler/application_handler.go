package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"truckrecruit/internal/model"
	"truckrecruit/internal/service"
)

// ApplicationHandler handles job applications.
type ApplicationHandler struct {
	applicationService service.ApplicationService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(applicationService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// ApplyRequest represents a driver's application to a job.
type ApplyRequest struct {
	JobID       uuid.UUID `json:"job_id" validate:"required"`
	CoverLetter string    `json:"cover_letter" validate:"omitempty,max=2000"`
}

// ApplicationStatusRequest represents a recruiter's decision on an application.
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed interviewed hired rejected"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

// Apply godoc
// @Summary Apply to a job
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ApplyRequest true "Application"
// @Success 201 {object} model.Application
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /applications [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	var req ApplyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	app, err := h.applicationService.Apply(c.Request().Context(), v.ID, req.JobID, req.CoverLetter)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, app)
}

// List godoc
// @Summary List applications
// @Description Drivers see their own applications; recruiters see the ones they received.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Application
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /applications [get]
func (h *ApplicationHandler) List(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	apps, err := h.applicationService.List(c.Request().Context(), v)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, apps)
}

// UpdateStatus godoc
// @Summary Update an application's status
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body ApplicationStatusRequest true "Status"
// @Success 200 {object} model.Application
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req ApplicationStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	app, err := h.applicationService.UpdateStatus(c.Request().Context(), v.ID, id, model.ApplicationStatus(req.Status), req.Notes)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, app)
}
