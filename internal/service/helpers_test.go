package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"truckrecruit/internal/db"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

// platform wires real services over a fresh sqlite database.
type platform struct {
	repos    *repository.Repositories
	store    repository.ContactStore
	contacts ContactService
	tracker  *recordingTracker
}

func newPlatform(t *testing.T) *platform {
	t.Helper()
	gormDB, err := db.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	repos := repository.New(gormDB)
	store := repository.NewContactStore(gormDB)
	tracker := &recordingTracker{}
	return &platform{
		repos:    repos,
		store:    store,
		contacts: NewContactService(store, nil, tracker, nil, 3, time.Millisecond),
		tracker:  tracker,
	}
}

func (p *platform) profile(t *testing.T, role model.Role, name string) *model.Profile {
	t.Helper()
	profile := &model.Profile{
		Email:        uuid.NewString() + "@example.com",
		Name:         name,
		Role:         role,
		PasswordHash: "x",
		Phone:        "555-0100",
		Location:     "Dallas, TX",
	}
	require.NoError(t, p.repos.Profiles.Create(context.Background(), profile))
	return profile
}

func (p *platform) driver(t *testing.T, name string, fitScore float64) uuid.UUID {
	t.Helper()
	profile := p.profile(t, model.RoleDriver, name)
	require.NoError(t, p.repos.Drivers.Create(context.Background(), &model.Driver{
		ID:           profile.ID,
		Availability: model.AvailabilityAvailable,
		FitScore:     fitScore,
	}))
	return profile.ID
}

func (p *platform) recruiter(t *testing.T, limit *int, used int) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	profile := p.profile(t, model.RoleRecruiter, "Rita Recruiter")
	require.NoError(t, p.repos.Recruiters.Create(ctx, &model.Recruiter{ID: profile.ID, CompanyName: "Fleet Co"}))
	require.NoError(t, p.repos.Subscriptions.Create(ctx, &model.Subscription{
		RecruiterID:        profile.ID,
		Type:               model.PlanStarter,
		Status:             model.SubscriptionActive,
		ContactsLimit:      limit,
		ContactsUsed:       used,
		CurrentPeriodStart: time.Now(),
	}))
	return profile.ID
}

func strPtr(s string) *string { return &s }
