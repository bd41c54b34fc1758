package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"truckrecruit/internal/service"
)

// RecruiterHandler handles recruiter company profiles.
type RecruiterHandler struct {
	recruiterService service.RecruiterService
}

// NewRecruiterHandler creates a new recruiter handler.
func NewRecruiterHandler(recruiterService service.RecruiterService) *RecruiterHandler {
	return &RecruiterHandler{recruiterService: recruiterService}
}

// RecruiterProfileRequest represents a company profile update. Omitted fields are unchanged.
type RecruiterProfileRequest struct {
	CompanyName *string `json:"company_name" validate:"omitempty,min=2,max=100"`
	CompanySize *string `json:"company_size" validate:"omitempty,max=50"`
	Website     *string `json:"website" validate:"omitempty,url,max=255"`
}

// GetProfile godoc
// @Summary Get the current recruiter's company profile
// @Tags recruiter
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Recruiter
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recruiter/profile [get]
func (h *RecruiterHandler) GetProfile(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	recruiter, err := h.recruiterService.Get(c.Request().Context(), v.ID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, recruiter)
}

// UpdateProfile godoc
// @Summary Update the current recruiter's company profile
// @Tags recruiter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecruiterProfileRequest true "Company fields"
// @Success 200 {object} model.Recruiter
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /recruiter/profile [put]
func (h *RecruiterHandler) UpdateProfile(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	var req RecruiterProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	recruiter, err := h.recruiterService.UpdateProfile(c.Request().Context(), v.ID, service.RecruiterProfileInput{
		CompanyName: req.CompanyName,
		CompanySize: req.CompanySize,
		Website:     req.Website,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, recruiter)
}
