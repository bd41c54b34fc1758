package fixtures

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truckrecruit/internal/db"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

func plainHash(p string) (string, error) { return "hashed:" + p, nil }

func TestDefault(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "demo123", set.Password)
	require.Len(t, set.Recruiters, 1)
	assert.Equal(t, "pro", set.Recruiters[0].Subscription.Type)
	assert.Equal(t, 45, set.Recruiters[0].Subscription.ContactsUsed)
	require.NotEmpty(t, set.Drivers)
	assert.Equal(t, "Michael Rodriguez", set.Drivers[0].Name)
	assert.Equal(t, []string{"Dry Van", "Flatbed"}, set.Drivers[0].EquipmentExperience)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("drivers: [unterminated"))
	assert.Error(t, err)
}

func TestSeed_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	gormDB, err := db.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	repos := repository.New(gormDB)

	set, err := Default()
	require.NoError(t, err)

	first, err := Seed(ctx, repos, set, plainHash)
	require.NoError(t, err)
	total := len(set.Admins) + len(set.Recruiters) + len(set.Drivers) + len(set.Jobs)
	assert.Equal(t, total, first.Created)
	assert.Zero(t, first.Skipped)

	second, err := Seed(ctx, repos, set, plainHash)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, total, second.Skipped)

	recruiterID := uuid.MustParse(set.Recruiters[0].ID)
	sub, err := repos.Subscriptions.FindByRecruiterID(ctx, recruiterID)
	require.NoError(t, err)
	require.NotNil(t, sub.ContactsLimit)
	assert.Equal(t, 100, *sub.ContactsLimit)
	assert.Equal(t, model.SubscriptionActive, sub.Status)

	driver, err := repos.Drivers.FindByID(ctx, uuid.MustParse(set.Drivers[0].ID))
	require.NoError(t, err)
	assert.Equal(t, 9.2, driver.FitScore)
	assert.Equal(t, "hashed:demo123", driver.Profile.PasswordHash)
}
