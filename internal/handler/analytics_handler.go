package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"truckrecruit/internal/service"
)

// AnalyticsHandler accepts client-side analytics events.
type AnalyticsHandler struct {
	tracker service.EventTracker
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(tracker service.EventTracker) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: tracker}
}

// TrackEventRequest represents one client event.
type TrackEventRequest struct {
	EventType string                 `json:"event_type" validate:"required,min=1,max=64"`
	EventData map[string]interface{} `json:"event_data"`
}

// Track godoc
// @Summary Record an analytics event
// @Description Events are queued and written in batches.
// @Tags analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TrackEventRequest true "Event"
// @Success 202 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /analytics/events [post]
func (h *AnalyticsHandler) Track(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	var req TrackEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	h.tracker.Track(c.Request().Context(), &v.ID, req.EventType, req.EventData)
	return c.JSON(http.StatusAccepted, MessageResponse{Message: "event accepted"})
}
