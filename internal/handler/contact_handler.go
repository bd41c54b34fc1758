package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"truckrecruit/internal/service"
)

// ContactHandler handles contact unlocks and the recruiter's quota.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// UnlockStatusResponse reports whether a recruiter has unlocked a driver.
type UnlockStatusResponse struct {
	DriverID uuid.UUID `json:"driver_id"`
	Unlocked bool      `json:"unlocked"`
}

// Unlock godoc
// @Summary Unlock a driver's contact details
// @Description Consumes one contact from the subscription the first time a driver is unlocked.
// @Description Repeating the call returns the same details with already_unlocked=true at no cost.
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param driverId path string true "Driver ID"
// @Success 200 {object} service.UnlockResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 402 {object} errors.ErrorResponse "QUOTA_EXCEEDED or SUBSCRIPTION_INACTIVE"
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /contacts/{driverId}/unlock [post]
func (h *ContactHandler) Unlock(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	driverID, err := pathID(c, "driverId")
	if err != nil {
		return err
	}
	result, err := h.contactService.UnlockContact(c.Request().Context(), v.ID, driverID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Status godoc
// @Summary Check whether a driver is unlocked
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param driverId path string true "Driver ID"
// @Success 200 {object} UnlockStatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /contacts/{driverId}/status [get]
func (h *ContactHandler) Status(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	driverID, err := pathID(c, "driverId")
	if err != nil {
		return err
	}
	unlocked, err := h.contactService.IsUnlocked(c.Request().Context(), v.ID, driverID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, UnlockStatusResponse{DriverID: driverID, Unlocked: unlocked})
}

// List godoc
// @Summary List unlocked contacts
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ContactUnlock
// @Failure 401 {object} errors.ErrorResponse
// @Router /contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	unlocks, err := h.contactService.ListUnlocked(c.Request().Context(), v.ID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, unlocks)
}

// Quota godoc
// @Summary Get the current subscription usage
// @Tags recruiter
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.QuotaView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recruiter/subscription [get]
func (h *ContactHandler) Quota(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	quota, err := h.contactService.GetQuota(c.Request().Context(), v.ID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, quota)
}
