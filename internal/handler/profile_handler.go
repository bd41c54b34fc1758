package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"truckrecruit/internal/service"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents a profile update. Omitted fields are unchanged.
type UpdateProfileRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=32"`
	Location     *string `json:"location" validate:"omitempty,max=100"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url,max=512"`
}

// GetMe godoc
// @Summary Get the current profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *ProfileHandler) GetMe(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	profile, err := h.profileService.Get(c.Request().Context(), v.ID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update the current profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [put]
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	profile, err := h.profileService.Update(c.Request().Context(), v.ID, service.UpdateProfileInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Location:     req.Location,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}
