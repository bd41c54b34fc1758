package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"truckrecruit/internal/analytics"
	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

// ApplicationService manages drivers' applications to job postings.
type ApplicationService interface {
	Apply(ctx context.Context, driverID, jobID uuid.UUID, coverLetter string) (*model.Application, error)
	List(ctx context.Context, viewer Viewer) ([]model.Application, error)
	UpdateStatus(ctx context.Context, recruiterID, id uuid.UUID, status model.ApplicationStatus, notes string) (*model.Application, error)
}

type applicationService struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	tracker      EventTracker
	validator    *InputValidator
}

// NewApplicationService creates a new application service.
func NewApplicationService(applications repository.ApplicationRepository, jobs repository.JobRepository, tracker EventTracker) ApplicationService {
	return &applicationService{applications: applications, jobs: jobs, tracker: tracker, validator: NewInputValidator()}
}

func (s *applicationService) Apply(ctx context.Context, driverID, jobID uuid.UUID, coverLetter string) (*model.Application, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}
	if !job.Active {
		return nil, fmt.Errorf("%w: job posting is closed", apperrors.ErrInvalidInput)
	}

	exists, err := s.applications.Exists(ctx, driverID, jobID)
	if err != nil {
		return nil, fmt.Errorf("check application: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: already applied to this job", apperrors.ErrConflict)
	}

	app := &model.Application{
		DriverID:    driverID,
		JobID:       jobID,
		RecruiterID: job.RecruiterID,
		Status:      model.ApplicationPending,
		CoverLetter: s.validator.Sanitize(coverLetter),
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	if s.tracker != nil {
		s.tracker.Track(ctx, &driverID, analytics.EventApplication, map[string]interface{}{"job_id": jobID.String()})
	}
	return app, nil
}

// List returns a driver's own applications or those received by a recruiter.
func (s *applicationService) List(ctx context.Context, viewer Viewer) ([]model.Application, error) {
	switch viewer.Role {
	case model.RoleDriver:
		return s.applications.ListByDriver(ctx, viewer.ID)
	case model.RoleRecruiter:
		return s.applications.ListByRecruiter(ctx, viewer.ID)
	}
	return nil, apperrors.ErrForbidden
}

func (s *applicationService) UpdateStatus(ctx context.Context, recruiterID, id uuid.UUID, status model.ApplicationStatus, notes string) (*model.Application, error) {
	app, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}
	if app.RecruiterID != recruiterID {
		return nil, apperrors.ErrForbidden
	}
	notes = s.validator.Sanitize(notes)
	if err := s.applications.UpdateStatus(ctx, id, status, notes); err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	app.Status = status
	app.Notes = notes
	return app, nil
}
