package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
	"truckrecruit/internal/stats"
)

const (
	topCandidates      = 5
	recentUnlocks      = 5
	upcomingInterviews = 5
	conversationWindow = 30 * 24 * time.Hour
)

// RecruiterDashboard is the recruiter home screen.
type RecruiterDashboard struct {
	TotalCandidates     int64                 `json:"total_candidates"`
	ActiveConversations int64                 `json:"active_conversations"`
	InterviewsThisWeek  int64                 `json:"interviews_this_week"`
	AverageFitScore     float64               `json:"average_fit_score"`
	UsagePercentage     int                   `json:"usage_percentage"`
	Quota               *QuotaView            `json:"quota,omitempty"`
	TopCandidates       []model.Driver        `json:"top_candidates"`
	RecentUnlocks       []model.ContactUnlock `json:"recent_unlocks"`
}

// DriverDashboard is the driver home screen.
type DriverDashboard struct {
	Applications       map[model.ApplicationStatus]int64 `json:"applications"`
	TotalApplications  int64                             `json:"total_applications"`
	UpcomingInterviews []model.Interview                 `json:"upcoming_interviews"`
	UnreadMessages     int64                             `json:"unread_messages"`
	ProfileCompletion  int                               `json:"profile_completion"`
}

// AdminDashboard summarises the whole platform.
type AdminDashboard struct {
	ProfilesByRole        map[model.Role]int64               `json:"profiles_by_role"`
	SubscriptionsByStatus map[model.SubscriptionStatus]int64 `json:"subscriptions_by_status"`
	TotalUnlocks          int64                              `json:"total_unlocks"`
	AverageFitScore       float64                            `json:"average_fit_score"`
	AnalyticsEvents       int64                              `json:"analytics_events"`
}

// DashboardService derives the per-role dashboard statistics.
type DashboardService interface {
	Recruiter(ctx context.Context, recruiterID uuid.UUID) (*RecruiterDashboard, error)
	Driver(ctx context.Context, driverID uuid.UUID) (*DriverDashboard, error)
	Admin(ctx context.Context) (*AdminDashboard, error)
}

type dashboardService struct {
	repos    *repository.Repositories
	contacts ContactService
	store    repository.ContactStore
	now      func() time.Time
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(repos *repository.Repositories, contacts ContactService, store repository.ContactStore) DashboardService {
	return &dashboardService{
		repos:    repos,
		contacts: contacts,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *dashboardService) Recruiter(ctx context.Context, recruiterID uuid.UUID) (*RecruiterDashboard, error) {
	now := s.now()
	d := &RecruiterDashboard{}

	var err error
	if d.TotalCandidates, err = s.repos.Drivers.CountAvailable(ctx); err != nil {
		return nil, fmt.Errorf("count candidates: %w", err)
	}
	if d.ActiveConversations, err = s.repos.Messages.CountConversationsSince(ctx, recruiterID, now.Add(-conversationWindow)); err != nil {
		return nil, fmt.Errorf("count conversations: %w", err)
	}
	weekStart := startOfWeek(now)
	if d.InterviewsThisWeek, err = s.repos.Interviews.CountScheduledBetween(ctx, recruiterID, weekStart, weekStart.AddDate(0, 0, 7)); err != nil {
		return nil, fmt.Errorf("count interviews: %w", err)
	}

	quota, err := s.contacts.GetQuota(ctx, recruiterID)
	switch {
	case err == nil:
		d.Quota = quota
		d.UsagePercentage = quota.PercentageUsed
	case !errors.Is(err, apperrors.ErrSubscriptionNotFound):
		return nil, err
	}

	unlocks, err := s.contacts.ListUnlocked(ctx, recruiterID)
	if err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}
	unlocked := make(map[uuid.UUID]bool, len(unlocks))
	for _, u := range unlocks {
		unlocked[u.DriverID] = true
	}
	d.RecentUnlocks = unlocks
	if len(unlocks) > recentUnlocks {
		d.RecentUnlocks = unlocks[:recentUnlocks]
	}

	top, err := s.repos.Drivers.Top(ctx, topCandidates)
	if err != nil {
		return nil, fmt.Errorf("top candidates: %w", err)
	}
	scores := make([]float64, len(top))
	for i := range top {
		scores[i] = top[i].FitScore
		if !unlocked[top[i].ID] {
			top[i] = top[i].Redacted()
		}
	}
	d.TopCandidates = top
	d.AverageFitScore = stats.Round1(stats.Average(scores))
	return d, nil
}

func (s *dashboardService) Driver(ctx context.Context, driverID uuid.UUID) (*DriverDashboard, error) {
	driver, err := s.repos.Drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrDriverNotFound)
	}
	d := &DriverDashboard{ProfileCompletion: driver.ProfileCompletion}

	if d.Applications, err = s.repos.Applications.CountByStatusForDriver(ctx, driverID); err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	for _, n := range d.Applications {
		d.TotalApplications += n
	}
	if d.UpcomingInterviews, err = s.repos.Interviews.ListUpcomingForDriver(ctx, driverID, s.now(), upcomingInterviews); err != nil {
		return nil, fmt.Errorf("upcoming interviews: %w", err)
	}
	if d.UnreadMessages, err = s.repos.Messages.CountUnread(ctx, driverID); err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	return d, nil
}

func (s *dashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	d := &AdminDashboard{}
	var err error
	if d.ProfilesByRole, err = s.repos.Profiles.CountByRole(ctx); err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}
	if d.SubscriptionsByStatus, err = s.repos.Subscriptions.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}
	if d.TotalUnlocks, err = s.store.CountUnlocks(ctx); err != nil {
		return nil, fmt.Errorf("count unlocks: %w", err)
	}
	scores, err := s.repos.Drivers.FitScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("fit scores: %w", err)
	}
	d.AverageFitScore = stats.Round1(stats.Average(scores))
	if d.AnalyticsEvents, err = s.repos.Events.Count(ctx, ""); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	return d, nil
}

// startOfWeek returns Monday 00:00 UTC of t's week.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}
