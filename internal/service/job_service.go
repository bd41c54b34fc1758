package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"truckrecruit/internal/analytics"
	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

// JobInput is a new job posting.
type JobInput struct {
	Title        string
	Description  string
	Location     string
	JobType      string
	SalaryMin    *int
	SalaryMax    *int
	Requirements []string
	Benefits     []string
}

// JobService manages recruiters' job postings.
type JobService interface {
	Create(ctx context.Context, recruiterID uuid.UUID, in JobInput) (*model.JobPosting, error)
	ListActive(ctx context.Context) ([]model.JobPosting, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.JobPosting, error)
	SetActive(ctx context.Context, recruiterID, jobID uuid.UUID, active bool) (*model.JobPosting, error)
}

type jobService struct {
	jobs      repository.JobRepository
	tracker   EventTracker
	validator *InputValidator
}

// NewJobService creates a new job service.
func NewJobService(jobs repository.JobRepository, tracker EventTracker) JobService {
	return &jobService{jobs: jobs, tracker: tracker, validator: NewInputValidator()}
}

func (s *jobService) Create(ctx context.Context, recruiterID uuid.UUID, in JobInput) (*model.JobPosting, error) {
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return nil, fmt.Errorf("%w: salary_min must not exceed salary_max", apperrors.ErrInvalidInput)
	}
	job := &model.JobPosting{
		RecruiterID:  recruiterID,
		Title:        strings.TrimSpace(in.Title),
		Description:  s.validator.Sanitize(in.Description),
		Location:     strings.TrimSpace(in.Location),
		JobType:      strings.TrimSpace(in.JobType),
		SalaryMin:    in.SalaryMin,
		SalaryMax:    in.SalaryMax,
		Requirements: cleanList(in.Requirements),
		Benefits:     cleanList(in.Benefits),
		Active:       true,
	}
	if job.Title == "" || job.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", apperrors.ErrInvalidInput)
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	if s.tracker != nil {
		s.tracker.Track(ctx, &recruiterID, analytics.EventJobPosted, map[string]interface{}{"job_id": job.ID.String()})
	}
	return job, nil
}

func (s *jobService) ListActive(ctx context.Context) ([]model.JobPosting, error) {
	return s.jobs.ListActive(ctx)
}

func (s *jobService) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.JobPosting, error) {
	return s.jobs.ListByRecruiter(ctx, recruiterID)
}

func (s *jobService) SetActive(ctx context.Context, recruiterID, jobID uuid.UUID, active bool) (*model.JobPosting, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}
	if job.RecruiterID != recruiterID {
		return nil, apperrors.ErrForbidden
	}
	if err := s.jobs.SetActive(ctx, jobID, active); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	job.Active = active
	return job, nil
}
