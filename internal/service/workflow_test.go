package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truckrecruit/internal/analytics"
	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
)

func TestHiringWorkflow(t *testing.T) {
	ctx := context.Background()
	p := newPlatform(t)
	jobs := NewJobService(p.repos.Jobs, p.tracker)
	applications := NewApplicationService(p.repos.Applications, p.repos.Jobs, p.tracker)
	interviews := NewInterviewService(p.repos.Interviews, p.repos.Applications, p.repos.Drivers)

	recruiterID := p.recruiter(t, intPtr(25), 0)
	otherRecruiter := p.recruiter(t, intPtr(25), 0)
	driverID := p.driver(t, "Job Seeker", 7)

	job, err := jobs.Create(ctx, recruiterID, JobInput{
		Title:        "OTR Driver",
		Description:  "Long haul <script>",
		Location:     "Dallas, TX",
		JobType:      "full-time",
		SalaryMin:    intPtr(60000),
		SalaryMax:    intPtr(80000),
		Requirements: []string{"CDL-A"},
	})
	require.NoError(t, err)
	assert.True(t, job.Active)
	assert.Equal(t, "Long haul script", job.Description)

	_, err = jobs.Create(ctx, recruiterID, JobInput{Title: "Bad", Description: "x", SalaryMin: intPtr(9), SalaryMax: intPtr(1)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	active, err := jobs.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	app, err := applications.Apply(ctx, driverID, job.ID, "Hire me")
	require.NoError(t, err)
	assert.Equal(t, recruiterID, app.RecruiterID)
	assert.Equal(t, model.ApplicationPending, app.Status)

	_, err = applications.Apply(ctx, driverID, job.ID, "Again")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	mine, err := applications.List(ctx, Viewer{ID: driverID, Role: model.RoleDriver})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	received, err := applications.List(ctx, Viewer{ID: recruiterID, Role: model.RoleRecruiter})
	require.NoError(t, err)
	assert.Len(t, received, 1)
	_, err = applications.List(ctx, Viewer{ID: uuid.New(), Role: model.RoleAdmin})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = applications.UpdateStatus(ctx, otherRecruiter, app.ID, model.ApplicationReviewed, "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	reviewed, err := applications.UpdateStatus(ctx, recruiterID, app.ID, model.ApplicationReviewed, "strong record")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationReviewed, reviewed.Status)

	iv, err := interviews.Schedule(ctx, recruiterID, InterviewInput{
		DriverID:        driverID,
		ApplicationID:   &app.ID,
		Title:           "Phone screen",
		ScheduledAt:     time.Now().Add(48 * time.Hour),
		DurationMinutes: 30,
		Type:            "phone",
	})
	require.NoError(t, err)
	assert.Equal(t, model.InterviewScheduled, iv.Status)

	got, err := p.repos.Applications.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationInterviewed, got.Status)

	_, err = interviews.Schedule(ctx, otherRecruiter, InterviewInput{
		DriverID: driverID, ApplicationID: &app.ID, Title: "Poach", ScheduledAt: time.Now().Add(time.Hour), DurationMinutes: 30, Type: "phone",
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = interviews.Schedule(ctx, recruiterID, InterviewInput{
		DriverID: driverID, Title: "Too long", ScheduledAt: time.Now().Add(time.Hour), DurationMinutes: 300, Type: "video",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = interviews.Schedule(ctx, recruiterID, InterviewInput{
		DriverID: uuid.New(), Title: "Ghost", ScheduledAt: time.Now().Add(time.Hour), DurationMinutes: 30, Type: "video",
	})
	assert.ErrorIs(t, err, apperrors.ErrDriverNotFound)

	listed, err := interviews.List(ctx, Viewer{ID: driverID, Role: model.RoleDriver})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	done, err := interviews.UpdateStatus(ctx, recruiterID, iv.ID, model.InterviewCompleted, "went well")
	require.NoError(t, err)
	assert.Equal(t, model.InterviewCompleted, done.Status)

	closed, err := jobs.SetActive(ctx, recruiterID, job.ID, false)
	require.NoError(t, err)
	assert.False(t, closed.Active)
	_, err = jobs.SetActive(ctx, otherRecruiter, job.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = applications.Apply(ctx, p.driver(t, "Late Comer", 5), job.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.Contains(t, p.tracker.types(), analytics.EventJobPosted)
	assert.Contains(t, p.tracker.types(), analytics.EventApplication)
}

func TestMessageService(t *testing.T) {
	ctx := context.Background()
	p := newPlatform(t)
	svc := NewMessageService(p.repos.Messages, p.repos.Profiles)

	recruiterID := p.recruiter(t, intPtr(25), 0)
	driverID := p.driver(t, "Inbox Owner", 5)

	msg, err := svc.Send(ctx, recruiterID, driverID, `Call me <img src=x onerror=alert(1)> javascript:void(0)`, nil)
	require.NoError(t, err)
	assert.NotContains(t, msg.Content, "<")
	assert.NotContains(t, msg.Content, "onerror=")
	assert.NotContains(t, msg.Content, "javascript:")

	_, err = svc.Send(ctx, recruiterID, driverID, "<>", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = svc.Send(ctx, driverID, driverID, "hello me", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = svc.Send(ctx, recruiterID, uuid.New(), "hello?", nil)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)

	for _, id := range []uuid.UUID{recruiterID, driverID} {
		msgs, err := svc.List(ctx, id)
		require.NoError(t, err)
		assert.Len(t, msgs, 1)
	}

	assert.ErrorIs(t, svc.MarkRead(ctx, recruiterID, msg.ID), apperrors.ErrForbidden)
	assert.ErrorIs(t, svc.MarkRead(ctx, driverID, uuid.New()), apperrors.ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, driverID, msg.ID))
	require.NoError(t, svc.MarkRead(ctx, driverID, msg.ID))

	unread, err := p.repos.Messages.CountUnread(ctx, driverID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestProfileAndRecruiterServices(t *testing.T) {
	ctx := context.Background()
	p := newPlatform(t)
	profiles := NewProfileService(p.repos.Profiles)
	recruiters := NewRecruiterService(p.repos.Recruiters)
	recruiterID := p.recruiter(t, intPtr(25), 0)

	updated, err := profiles.Update(ctx, recruiterID, UpdateProfileInput{Name: strPtr("  Rita Moreno "), Location: strPtr("Austin, TX")})
	require.NoError(t, err)
	assert.Equal(t, "Rita Moreno", updated.Name)
	assert.Equal(t, "555-0100", updated.Phone)

	_, err = profiles.Update(ctx, recruiterID, UpdateProfileInput{Phone: strPtr("call me maybe")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = profiles.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)

	company, err := recruiters.UpdateProfile(ctx, recruiterID, RecruiterProfileInput{CompanyName: strPtr("Big Rig LLC"), Website: strPtr("https://bigrig.example")})
	require.NoError(t, err)
	assert.Equal(t, "Big Rig LLC", company.CompanyName)

	got, err := recruiters.Get(ctx, recruiterID)
	require.NoError(t, err)
	assert.Equal(t, "https://bigrig.example", got.Website)

	_, err = recruiters.UpdateProfile(ctx, recruiterID, RecruiterProfileInput{CompanyName: strPtr("X")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = recruiters.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrRecruiterNotFound)
}
