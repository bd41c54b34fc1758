package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

// InterviewInput schedules an interview with a driver.
type InterviewInput struct {
	DriverID        uuid.UUID
	ApplicationID   *uuid.UUID
	Title           string
	Description     string
	ScheduledAt     time.Time
	DurationMinutes int
	Type            string
	MeetingURL      string
}

// InterviewService manages interviews between recruiters and drivers.
type InterviewService interface {
	Schedule(ctx context.Context, recruiterID uuid.UUID, in InterviewInput) (*model.Interview, error)
	List(ctx context.Context, viewer Viewer) ([]model.Interview, error)
	UpdateStatus(ctx context.Context, recruiterID, id uuid.UUID, status model.InterviewStatus, notes string) (*model.Interview, error)
}

type interviewService struct {
	interviews   repository.InterviewRepository
	applications repository.ApplicationRepository
	drivers      repository.DriverRepository
	validator    *InputValidator
	now          func() time.Time
}

// NewInterviewService creates a new interview service.
func NewInterviewService(
	interviews repository.InterviewRepository,
	applications repository.ApplicationRepository,
	drivers repository.DriverRepository,
) InterviewService {
	return &interviewService{
		interviews:   interviews,
		applications: applications,
		drivers:      drivers,
		validator:    NewInputValidator(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *interviewService) Schedule(ctx context.Context, recruiterID uuid.UUID, in InterviewInput) (*model.Interview, error) {
	if in.DurationMinutes < 15 || in.DurationMinutes > 240 {
		return nil, fmt.Errorf("%w: duration must be between 15 and 240 minutes", apperrors.ErrInvalidInput)
	}
	if !in.ScheduledAt.After(s.now()) {
		return nil, fmt.Errorf("%w: interview must be scheduled in the future", apperrors.ErrInvalidInput)
	}
	if _, err := s.drivers.FindByID(ctx, in.DriverID); err != nil {
		return nil, notFound(err, apperrors.ErrDriverNotFound)
	}
	if in.ApplicationID != nil {
		app, err := s.applications.FindByID(ctx, *in.ApplicationID)
		if err != nil {
			return nil, notFound(err, apperrors.ErrNotFound)
		}
		if app.RecruiterID != recruiterID || app.DriverID != in.DriverID {
			return nil, apperrors.ErrForbidden
		}
	}

	interview := &model.Interview{
		RecruiterID:     recruiterID,
		DriverID:        in.DriverID,
		ApplicationID:   in.ApplicationID,
		Title:           strings.TrimSpace(in.Title),
		Description:     s.validator.Sanitize(in.Description),
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Type:            in.Type,
		Status:          model.InterviewScheduled,
		MeetingURL:      strings.TrimSpace(in.MeetingURL),
	}
	if err := s.interviews.Create(ctx, interview); err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}
	if in.ApplicationID != nil {
		if err := s.applications.UpdateStatus(ctx, *in.ApplicationID, model.ApplicationInterviewed, ""); err != nil {
			return nil, fmt.Errorf("update application: %w", err)
		}
	}
	return interview, nil
}

func (s *interviewService) List(ctx context.Context, viewer Viewer) ([]model.Interview, error) {
	switch viewer.Role {
	case model.RoleDriver:
		return s.interviews.ListByDriver(ctx, viewer.ID)
	case model.RoleRecruiter:
		return s.interviews.ListByRecruiter(ctx, viewer.ID)
	}
	return nil, apperrors.ErrForbidden
}

func (s *interviewService) UpdateStatus(ctx context.Context, recruiterID, id uuid.UUID, status model.InterviewStatus, notes string) (*model.Interview, error) {
	interview, err := s.interviews.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}
	if interview.RecruiterID != recruiterID {
		return nil, apperrors.ErrForbidden
	}
	notes = s.validator.Sanitize(notes)
	if err := s.interviews.UpdateStatus(ctx, id, status, notes); err != nil {
		return nil, fmt.Errorf("update interview: %w", err)
	}
	interview.Status = status
	interview.Notes = notes
	return interview, nil
}
