package service

import (
	"context"
	"fmt"

	"truckrecruit/internal/fixtures"
	"truckrecruit/internal/logger"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

// AdminService holds operator-only actions.
type AdminService interface {
	ListUsers(ctx context.Context, role model.Role) ([]model.Profile, error)
	Seed(ctx context.Context) (*fixtures.Result, error)
}

type adminService struct {
	repos *repository.Repositories
	auth  AuthService
}

// NewAdminService creates a new admin service. Seeded passwords are hashed by auth.
func NewAdminService(repos *repository.Repositories, auth AuthService) AdminService {
	return &adminService{repos: repos, auth: auth}
}

// ListUsers lists profiles, optionally restricted to one role.
func (s *adminService) ListUsers(ctx context.Context, role model.Role) ([]model.Profile, error) {
	return s.repos.Profiles.List(ctx, role)
}

// Seed loads the built-in demo data. Records that already exist are skipped.
func (s *adminService) Seed(ctx context.Context) (*fixtures.Result, error) {
	set, err := fixtures.Default()
	if err != nil {
		return nil, fmt.Errorf("load fixtures: %w", err)
	}
	result, err := fixtures.Seed(ctx, s.repos, set, s.auth.HashPassword)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	logger.FromContext(ctx).Info("demo data seeded", "created", result.Created, "skipped", result.Skipped)
	return result, nil
}
