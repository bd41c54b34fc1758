package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"truckrecruit/internal/errors"
	"truckrecruit/internal/fixtures"
	"truckrecruit/internal/model"
	"truckrecruit/internal/service"
)

// AdminHandler handles operator endpoints.
type AdminHandler struct {
	adminService        service.AdminService
	subscriptionService service.SubscriptionService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService, subscriptionService service.SubscriptionService) *AdminHandler {
	return &AdminHandler{adminService: adminService, subscriptionService: subscriptionService}
}

// UpdateSubscriptionRequest is a billing change. Omitted fields are unchanged.
type UpdateSubscriptionRequest struct {
	Type             *string          `json:"type" validate:"omitempty,oneof=starter pro enterprise pay-per-contact"`
	Status           *string          `json:"status" validate:"omitempty,oneof=active cancelled expired trial"`
	ContactsLimit    *int             `json:"contacts_limit" validate:"omitempty,min=0"`
	Unlimited        bool             `json:"unlimited"`
	PriceMonthly     *decimal.Decimal `json:"price_monthly" swaggertype:"string"`
	CurrentPeriodEnd *time.Time       `json:"current_period_end"`
	ResetUsage       bool             `json:"reset_usage"`
}

// SeedResponse represents the seed response.
type SeedResponse struct {
	Message string `json:"message"`
	fixtures.Result
}

// ListUsers godoc
// @Summary List profiles
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "driver, recruiter or admin"
// @Success 200 {array} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	role := model.Role(c.QueryParam("role"))
	if role != "" && !role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "role must be one of driver, recruiter, admin",
			Code:  "INVALID_QUERY",
		})
	}
	users, err := h.adminService.ListUsers(c.Request().Context(), role)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateSubscription godoc
// @Summary Change a recruiter's subscription
// @Description Billing entry point: plan changes, pay-per-contact credits, cancellations and new periods.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param recruiterId path string true "Recruiter ID"
// @Param request body UpdateSubscriptionRequest true "Changes"
// @Success 200 {object} model.Subscription
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/subscriptions/{recruiterId} [put]
func (h *AdminHandler) UpdateSubscription(c echo.Context) error {
	recruiterID, err := pathID(c, "recruiterId")
	if err != nil {
		return err
	}
	var req UpdateSubscriptionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := service.SubscriptionUpdate{
		ContactsLimit:    req.ContactsLimit,
		Unlimited:        req.Unlimited,
		PriceMonthly:     req.PriceMonthly,
		CurrentPeriodEnd: req.CurrentPeriodEnd,
		ResetUsage:       req.ResetUsage,
	}
	if req.Type != nil {
		t := model.PlanType(*req.Type)
		in.Type = &t
	}
	if req.Status != nil {
		s := model.SubscriptionStatus(*req.Status)
		in.Status = &s
	}

	sub, err := h.subscriptionService.Update(c.Request().Context(), recruiterID, in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, sub)
}

// Seed godoc
// @Summary Load demo data
// @Description Creates the demo admin, recruiter, drivers and jobs. Existing records are skipped.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SeedResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/seed [post]
func (h *AdminHandler) Seed(c echo.Context) error {
	result, err := h.adminService.Seed(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, SeedResponse{
		Message: "demo data loaded",
		Result:  *result,
	})
}
