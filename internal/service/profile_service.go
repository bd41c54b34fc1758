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

// UpdateProfileInput carries the editable profile fields. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name         *string
	Phone        *string
	Location     *string
	ProfileImage *string
}

// ProfileService handles the caller's own profile.
type ProfileService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.Profile, error)
}

type profileService struct {
	profiles  repository.ProfileRepository
	validator *InputValidator
}

// NewProfileService creates a new profile service.
func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles, validator: NewInputValidator()}
}

func (s *profileService) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrProfileNotFound)
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.Profile, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := s.validator.ValidateName(*in.Name); err != nil {
			return nil, err
		}
		profile.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		if err := s.validator.ValidatePhone(*in.Phone); err != nil {
			return nil, err
		}
		profile.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Location != nil {
		loc := strings.TrimSpace(*in.Location)
		if len(loc) > 100 {
			return nil, fmt.Errorf("%w: location must be at most 100 characters", apperrors.ErrInvalidInput)
		}
		profile.Location = loc
	}
	if in.ProfileImage != nil {
		profile.ProfileImage = strings.TrimSpace(*in.ProfileImage)
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}
