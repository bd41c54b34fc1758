package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

// RecruiterProfileInput carries the editable company fields. Nil fields are left unchanged.
type RecruiterProfileInput struct {
	CompanyName *string
	CompanySize *string
	Website     *string
}

// RecruiterService manages recruiter company profiles.
type RecruiterService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Recruiter, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in RecruiterProfileInput) (*model.Recruiter, error)
}

type recruiterService struct {
	recruiters repository.RecruiterRepository
}

// NewRecruiterService creates a new recruiter service.
func NewRecruiterService(recruiters repository.RecruiterRepository) RecruiterService {
	return &recruiterService{recruiters: recruiters}
}

func (s *recruiterService) Get(ctx context.Context, id uuid.UUID) (*model.Recruiter, error) {
	recruiter, err := s.recruiters.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrRecruiterNotFound)
	}
	return recruiter, nil
}

func (s *recruiterService) UpdateProfile(ctx context.Context, id uuid.UUID, in RecruiterProfileInput) (*model.Recruiter, error) {
	recruiter, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CompanyName != nil {
		name := strings.TrimSpace(*in.CompanyName)
		if len(name) < 2 || len(name) > 100 {
			return nil, fmt.Errorf("%w: company name must be between 2 and 100 characters", apperrors.ErrInvalidInput)
		}
		recruiter.CompanyName = name
	}
	if in.CompanySize != nil {
		recruiter.CompanySize = strings.TrimSpace(*in.CompanySize)
	}
	if in.Website != nil {
		recruiter.Website = strings.TrimSpace(*in.Website)
	}
	if err := s.recruiters.Update(ctx, recruiter); err != nil {
		return nil, fmt.Errorf("update recruiter: %w", err)
	}
	return recruiter, nil
}
