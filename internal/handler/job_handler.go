package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"truckrecruit/internal/model"
	"truckrecruit/internal/service"
)

// JobHandler handles job postings.
type JobHandler struct {
	jobService service.JobService
}

// NewJobHandler creates a new job handler.
func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// CreateJobRequest represents a new job posting.
type CreateJobRequest struct {
	Title        string   `json:"title" validate:"required,min=2,max=100"`
	Description  string   `json:"description" validate:"required,max=5000"`
	Location     string   `json:"location" validate:"required,max=100"`
	JobType      string   `json:"job_type" validate:"required,max=50"`
	SalaryMin    *int     `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax    *int     `json:"salary_max" validate:"omitempty,min=0"`
	Requirements []string `json:"requirements" validate:"omitempty,max=30,dive,max=200"`
	Benefits     []string `json:"benefits" validate:"omitempty,max=30,dive,max=200"`
}

// SetActiveRequest opens or closes a posting.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// Create godoc
// @Summary Post a job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateJobRequest true "Job posting"
// @Success 201 {object} model.JobPosting
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	var req CreateJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	job, err := h.jobService.Create(c.Request().Context(), v.ID, service.JobInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		JobType:      req.JobType,
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
		Requirements: req.Requirements,
		Benefits:     req.Benefits,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, job)
}

// List godoc
// @Summary List job postings
// @Description Active postings, or a recruiter's own postings with mine=true.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param mine query bool false "Only the caller's postings (recruiters)"
// @Success 200 {array} model.JobPosting
// @Failure 401 {object} errors.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	var jobs []model.JobPosting
	if c.QueryParam("mine") == "true" && v.Role == model.RoleRecruiter {
		jobs, err = h.jobService.ListByRecruiter(ctx, v.ID)
	} else {
		jobs, err = h.jobService.ListActive(ctx)
	}
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, jobs)
}

// SetActive godoc
// @Summary Open or close a job posting
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param request body SetActiveRequest true "Active flag"
// @Success 200 {object} model.JobPosting
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id}/active [put]
func (h *JobHandler) SetActive(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req SetActiveRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	job, err := h.jobService.SetActive(c.Request().Context(), v.ID, id, *req.Active)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, job)
}
