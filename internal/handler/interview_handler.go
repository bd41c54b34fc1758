package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"truckrecruit/internal/model"
	"truckrecruit/internal/service"
)

// InterviewHandler handles interview scheduling.
type InterviewHandler struct {
	interviewService service.InterviewService
}

// NewInterviewHandler creates a new interview handler.
func NewInterviewHandler(interviewService service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

// ScheduleInterviewRequest represents a new interview.
type ScheduleInterviewRequest struct {
	DriverID        uuid.UUID  `json:"driver_id" validate:"required"`
	ApplicationID   *uuid.UUID `json:"application_id"`
	Title           string     `json:"title" validate:"required,min=2,max=100"`
	Description     string     `json:"description" validate:"omitempty,max=2000"`
	ScheduledAt     time.Time  `json:"scheduled_at" validate:"required"`
	DurationMinutes int        `json:"duration_minutes" validate:"required,min=15,max=240"`
	Type            string     `json:"type" validate:"required,oneof=phone video in-person"`
	MeetingURL      string     `json:"meeting_url" validate:"omitempty,url,max=512"`
}

// InterviewStatusRequest represents an interview outcome.
type InterviewStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled no-show"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

// Schedule godoc
// @Summary Schedule an interview
// @Tags interviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ScheduleInterviewRequest true "Interview"
// @Success 201 {object} model.Interview
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /interviews [post]
func (h *InterviewHandler) Schedule(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	var req ScheduleInterviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	interview, err := h.interviewService.Schedule(c.Request().Context(), v.ID, service.InterviewInput{
		DriverID:        req.DriverID,
		ApplicationID:   req.ApplicationID,
		Title:           req.Title,
		Description:     req.Description,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		MeetingURL:      req.MeetingURL,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, interview)
}

// List godoc
// @Summary List interviews
// @Tags interviews
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Interview
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /interviews [get]
func (h *InterviewHandler) List(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	interviews, err := h.interviewService.List(c.Request().Context(), v)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, interviews)
}

// UpdateStatus godoc
// @Summary Record an interview outcome
// @Tags interviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Interview ID"
// @Param request body InterviewStatusRequest true "Status"
// @Success 200 {object} model.Interview
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /interviews/{id}/status [put]
func (h *InterviewHandler) UpdateStatus(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req InterviewStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	interview, err := h.interviewService.UpdateStatus(c.Request().Context(), v.ID, id, model.InterviewStatus(req.Status), req.Notes)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, interview)
}
