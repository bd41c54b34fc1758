package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"truckrecruit/internal/errors"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
	"truckrecruit/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DriverHandler handles driver search and profiles.
type DriverHandler struct {
	driverService service.DriverService
}

// NewDriverHandler creates a new driver handler.
func NewDriverHandler(driverService service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// DriverProfileRequest represents a driver profile update. Omitted fields are unchanged.
type DriverProfileRequest struct {
	ExperienceYears     *int     `json:"experience_years" validate:"omitempty,min=0,max=60"`
	LicenseTypes        []string `json:"license_types" validate:"omitempty,max=10,dive,max=20"`
	TWICCard            *bool    `json:"twic_card"`
	HazmatEndorsement   *bool    `json:"hazmat_endorsement"`
	Availability        *string  `json:"availability" validate:"omitempty,oneof=available employed seeking"`
	PreferredRoutes     []string `json:"preferred_routes" validate:"omitempty,max=20,dive,max=50"`
	EquipmentExperience []string `json:"equipment_experience" validate:"omitempty,max=20,dive,max=50"`
	Bio                 *string  `json:"bio" validate:"omitempty,max=2000"`
}

// Search godoc
// @Summary Search drivers
// @Description Contact fields are redacted for drivers the caller has not unlocked.
// @Tags drivers
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or bio text"
// @Param location query string false "Location substring"
// @Param experience_min query int false "Minimum years of experience"
// @Param experience_max query int false "Maximum years of experience"
// @Param license_type query string false "License type, e.g. CDL-A"
// @Param availability query string false "available, employed or seeking"
// @Param twic_card query bool false "Holds a TWIC card"
// @Param hazmat_endorsement query bool false "Has a hazmat endorsement"
// @Param equipment query string false "Equipment experience"
// @Param fit_score_min query number false "Minimum fit score"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} model.Driver
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /drivers [get]
func (h *DriverHandler) Search(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	filter, err := driverFilter(c)
	if err != nil {
		return err
	}
	drivers, err := h.driverService.Search(c.Request().Context(), v, filter)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, drivers)
}

func driverFilter(c echo.Context) (repository.DriverFilter, error) {
	var (
		f              repository.DriverFilter
		expMin, expMax int
		twic, hazmat   bool
		fitMin         float64
		availability   string
	)
	f.Limit = defaultPageSize
	err := echo.QueryParamsBinder(c).
		String("search", &f.Search).
		String("location", &f.Location).
		Int("experience_min", &expMin).
		Int("experience_max", &expMax).
		String("license_type", &f.LicenseType).
		String("availability", &availability).
		Bool("twic_card", &twic).
		Bool("hazmat_endorsement", &hazmat).
		String("equipment", &f.Equipment).
		Float64("fit_score_min", &fitMin).
		Int("limit", &f.Limit).
		Int("offset", &f.Offset).
		BindError()
	if err != nil {
		return f, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_QUERY",
		})
	}

	switch model.Availability(availability) {
	case "", model.AvailabilityAvailable, model.AvailabilityEmployed, model.AvailabilitySeeking:
		f.Availability = model.Availability(availability)
	default:
		return f, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "availability must be one of available, employed, seeking",
			Code:  "INVALID_QUERY",
		})
	}
	if c.QueryParam("experience_min") != "" {
		f.ExperienceMin = &expMin
	}
	if c.QueryParam("experience_max") != "" {
		f.ExperienceMax = &expMax
	}
	if c.QueryParam("twic_card") != "" {
		f.TWICCard = &twic
	}
	if c.QueryParam("hazmat_endorsement") != "" {
		f.Hazmat = &hazmat
	}
	if c.QueryParam("fit_score_min") != "" {
		f.FitScoreMin = &fitMin
	}
	if f.Limit <= 0 || f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f, nil
}

// Get godoc
// @Summary Get a driver
// @Description Contact fields are visible to the driver, admins and recruiters who unlocked them.
// @Tags drivers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Driver ID"
// @Success 200 {object} model.Driver
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /drivers/{id} [get]
func (h *DriverHandler) Get(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	driver, err := h.driverService.Get(c.Request().Context(), v, id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, driver)
}

// UpdateProfile godoc
// @Summary Update the current driver's profile
// @Tags drivers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DriverProfileRequest true "Driver fields"
// @Success 200 {object} model.Driver
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /driver/profile [put]
func (h *DriverHandler) UpdateProfile(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	var req DriverProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in := service.DriverProfileInput{
		ExperienceYears:     req.ExperienceYears,
		LicenseTypes:        req.LicenseTypes,
		TWICCard:            req.TWICCard,
		HazmatEndorsement:   req.HazmatEndorsement,
		PreferredRoutes:     req.PreferredRoutes,
		EquipmentExperience: req.EquipmentExperience,
		Bio:                 req.Bio,
	}
	if req.Availability != nil {
		a := model.Availability(*req.Availability)
		in.Availability = &a
	}
	driver, err := h.driverService.UpdateProfile(c.Request().Context(), v.ID, in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, driver)
}
