package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truckrecruit/internal/auth"
	"truckrecruit/internal/model"
)

func TestStartOfWeek(t *testing.T) {
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
	}{
		{"monday midnight", monday},
		{"monday afternoon", time.Date(2026, 10, 12, 15, 4, 5, 0, time.UTC)},
		{"wednesday", time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)},
		{"sunday night", time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, monday, startOfWeek(tt.at))
		})
	}
}

func TestDashboardService(t *testing.T) {
	ctx := context.Background()
	p := newPlatform(t)
	svc := NewDashboardService(p.repos, p.contacts, p.store)

	recruiterID := p.recruiter(t, intPtr(10), 0)
	best := p.driver(t, "Best Driver", 9)
	mid := p.driver(t, "Mid Driver", 8)
	p.driver(t, "Third Driver", 7)

	_, err := p.contacts.UnlockContact(ctx, recruiterID, best)
	require.NoError(t, err)

	require.NoError(t, p.repos.Messages.Create(ctx, &model.Message{SenderID: recruiterID, RecipientID: mid, Content: "Interested?"}))
	require.NoError(t, p.repos.Messages.Create(ctx, &model.Message{SenderID: mid, RecipientID: recruiterID, Content: "Yes"}))

	week := startOfWeek(time.Now())
	thisWeek := &model.Interview{RecruiterID: recruiterID, DriverID: mid, Title: "Screen", ScheduledAt: week.Add(3*24*time.Hour + 10*time.Hour), DurationMinutes: 30, Type: "phone", Status: model.InterviewScheduled}
	nextWeek := &model.Interview{RecruiterID: recruiterID, DriverID: mid, Title: "Road test", ScheduledAt: week.AddDate(0, 0, 8), DurationMinutes: 60, Type: "in-person", Status: model.InterviewScheduled}
	require.NoError(t, p.repos.Interviews.Create(ctx, thisWeek))
	require.NoError(t, p.repos.Interviews.Create(ctx, nextWeek))

	job := &model.JobPosting{RecruiterID: recruiterID, Title: "Regional", Description: "d", Location: "TX", JobType: "full-time", Active: true}
	require.NoError(t, p.repos.Jobs.Create(ctx, job))
	require.NoError(t, p.repos.Applications.Create(ctx, &model.Application{DriverID: mid, JobID: job.ID, RecruiterID: recruiterID, Status: model.ApplicationPending}))

	t.Run("recruiter", func(t *testing.T) {
		d, err := svc.Recruiter(ctx, recruiterID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), d.TotalCandidates)
		assert.Equal(t, int64(1), d.ActiveConversations)
		assert.Equal(t, int64(1), d.InterviewsThisWeek)
		assert.Equal(t, 8.0, d.AverageFitScore)
		assert.Equal(t, 10, d.UsagePercentage)
		require.Len(t, d.RecentUnlocks, 1)

		require.Len(t, d.TopCandidates, 3)
		assert.Equal(t, best, d.TopCandidates[0].ID)
		assert.NotEmpty(t, d.TopCandidates[0].Profile.Email)
		assert.Empty(t, d.TopCandidates[1].Profile.Email)
	})

	t.Run("driver", func(t *testing.T) {
		d, err := svc.Driver(ctx, mid)
		require.NoError(t, err)
		assert.Equal(t, int64(1), d.Applications[model.ApplicationPending])
		assert.Equal(t, int64(1), d.TotalApplications)
		assert.Equal(t, int64(1), d.UnreadMessages)

		var ids []string
		for _, iv := range d.UpcomingInterviews {
			ids = append(ids, iv.ID.String())
		}
		assert.Contains(t, ids, nextWeek.ID.String())
	})

	t.Run("admin", func(t *testing.T) {
		d, err := svc.Admin(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), d.ProfilesByRole[model.RoleDriver])
		assert.Equal(t, int64(1), d.ProfilesByRole[model.RoleRecruiter])
		assert.Equal(t, int64(1), d.SubscriptionsByStatus[model.SubscriptionActive])
		assert.Equal(t, int64(1), d.TotalUnlocks)
		assert.Equal(t, 8.0, d.AverageFitScore)
	})
}

func TestDashboardService_RecruiterWithoutSubscription(t *testing.T) {
	ctx := context.Background()
	p := newPlatform(t)
	svc := NewDashboardService(p.repos, p.contacts, p.store)
	profile := p.profile(t, model.RoleRecruiter, "No Plan")

	d, err := svc.Recruiter(ctx, profile.ID)
	require.NoError(t, err)
	assert.Nil(t, d.Quota)
	assert.Zero(t, d.UsagePercentage)
	assert.Zero(t, d.AverageFitScore)
}

func TestAdminService_Seed(t *testing.T) {
	ctx := context.Background()
	p := newPlatform(t)
	authSvc := NewAuthService(p.repos, auth.NewJWTService(testSecret), new(MockTokenStore), nil, nil)
	svc := NewAdminService(p.repos, authSvc)

	first, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Positive(t, first.Created)

	second, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, first.Created, second.Skipped)

	drivers, err := svc.ListUsers(ctx, model.RoleDriver)
	require.NoError(t, err)
	assert.Len(t, drivers, 4)

	all, err := svc.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
