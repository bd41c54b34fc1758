package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"truckrecruit/internal/analytics"
	"truckrecruit/internal/cache"
	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/events"
	"truckrecruit/internal/logger"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
	"truckrecruit/internal/retry"
	"truckrecruit/internal/stats"
)

const (
	quotaCacheTTL  = time.Minute
	publishTimeout = 2 * time.Second
)

// UnlockResult is returned by a successful unlock, fresh or repeated.
type UnlockResult struct {
	DriverID        uuid.UUID `json:"driver_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	AlreadyUnlocked bool      `json:"already_unlocked"`
	ContactsUsed    int       `json:"contacts_used"`
	ContactsLimit   *int      `json:"contacts_limit"`
	Remaining       *int      `json:"remaining"`
	UnlockedAt      time.Time `json:"unlocked_at"`
}

// QuotaView summarises a recruiter's subscription usage.
type QuotaView struct {
	PlanType         model.PlanType           `json:"plan_type"`
	Status           model.SubscriptionStatus `json:"status"`
	ContactsUsed     int                      `json:"contacts_used"`
	ContactsLimit    *int                     `json:"contacts_limit"`
	Remaining        *int                     `json:"remaining"`
	Unlimited        bool                     `json:"unlimited"`
	PercentageUsed   int                      `json:"percentage_used"`
	PriceMonthly     decimal.Decimal          `json:"price_monthly"`
	CurrentPeriodEnd *time.Time               `json:"current_period_end,omitempty"`
}

// EventTracker records analytics events without blocking.
type EventTracker interface {
	Track(ctx context.Context, userID *uuid.UUID, eventType string, data map[string]interface{})
}

// ContactService enforces the per-recruiter contact unlock quota.
type ContactService interface {
	UnlockContact(ctx context.Context, recruiterID, driverID uuid.UUID) (*UnlockResult, error)
	IsUnlocked(ctx context.Context, recruiterID, driverID uuid.UUID) (bool, error)
	ListUnlocked(ctx context.Context, recruiterID uuid.UUID) ([]model.ContactUnlock, error)
	GetQuota(ctx context.Context, recruiterID uuid.UUID) (*QuotaView, error)
	// InvalidateQuota drops the cached quota view after an out-of-band subscription change.
	InvalidateQuota(ctx context.Context, recruiterID uuid.UUID)
}

type contactService struct {
	store     repository.ContactStore
	publisher events.Publisher
	tracker   EventTracker
	cache     *cache.Client
	attempts  int
	delay     time.Duration
	now       func() time.Time
}

// NewContactService creates a new contact service. Transient store failures are retried up
// to attempts times with linear backoff of delay.
func NewContactService(
	store repository.ContactStore,
	publisher events.Publisher,
	tracker EventTracker,
	cache *cache.Client,
	attempts int,
	delay time.Duration,
) ContactService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &contactService{
		store:     store,
		publisher: publisher,
		tracker:   tracker,
		cache:     cache,
		attempts:  attempts,
		delay:     delay,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// UnlockContact reveals a driver's contact fields to a recruiter, consuming one unit of quota
// the first time the pair is unlocked.
func (s *contactService) UnlockContact(ctx context.Context, recruiterID, driverID uuid.UUID) (*UnlockResult, error) {
	if recruiterID == uuid.Nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	log := logger.FromContext(ctx).With("recruiter_id", recruiterID, "driver_id", driverID)

	retryable := func(err error) bool {
		return errors.Is(err, apperrors.ErrTransientStore)
	}

	// Pairs unlocked before this call take the idempotent Unlock path on every attempt, so
	// only a pair that was new here can be recovered as a fresh commit.
	var existed bool
	err := retry.Do(ctx, retry.Policy{Attempts: s.attempts, Delay: s.delay, Retryable: retryable}, func(ctx context.Context) error {
		var err error
		existed, err = s.store.IsUnlocked(ctx, recruiterID, driverID)
		return err
	})
	if err != nil {
		return nil, err
	}

	var (
		outcome   *repository.UnlockOutcome
		recovered bool
	)
	policy := retry.Policy{
		Attempts:  s.attempts,
		Delay:     s.delay,
		Retryable: retryable,
		BeforeRetry: func(ctx context.Context, attempt int) (bool, error) {
			if existed {
				log.Warn("retrying contact unlock", "attempt", attempt)
				return false, nil
			}
			// A failure reported after commit must not be replayed as a second write.
			unlocked, err := s.store.IsUnlocked(ctx, recruiterID, driverID)
			if err != nil || !unlocked {
				log.Warn("retrying contact unlock", "attempt", attempt)
				return false, nil
			}
			recovered = true
			return true, nil
		},
	}

	err = retry.Do(ctx, policy, func(ctx context.Context) error {
		var err error
		outcome, err = s.store.Unlock(ctx, recruiterID, driverID, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	if recovered {
		if outcome, err = s.committedOutcome(ctx, recruiterID, driverID); err != nil {
			return nil, err
		}
	}

	if err := s.checkInvariant(ctx, outcome.Subscription); err != nil {
		return nil, err
	}

	result := newUnlockResult(outcome)
	if !outcome.AlreadyUnlocked {
		log.Info("contact unlocked", "contacts_used", result.ContactsUsed)
		s.afterUnlock(ctx, recruiterID, result)
	}
	return result, nil
}

// committedOutcome rebuilds the result of an unlock whose commit was acknowledged only after
// the error that triggered a retry.
func (s *contactService) committedOutcome(ctx context.Context, recruiterID, driverID uuid.UUID) (*repository.UnlockOutcome, error) {
	contact, err := s.store.FindDriverContact(ctx, driverID)
	if err != nil {
		return nil, err
	}
	sub, err := s.store.FindSubscription(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	unlocks, err := s.store.ListUnlocks(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	out := &repository.UnlockOutcome{Contact: *contact, Subscription: sub, UnlockedAt: s.now()}
	for _, u := range unlocks {
		if u.DriverID == driverID {
			out.UnlockedAt = u.UnlockedAt
			break
		}
	}
	return out, nil
}

func (s *contactService) afterUnlock(ctx context.Context, recruiterID uuid.UUID, result *UnlockResult) {
	log := logger.FromContext(ctx)

	s.InvalidateQuota(ctx, recruiterID)

	payload := map[string]interface{}{
		"recruiter_id":   recruiterID,
		"driver_id":      result.DriverID,
		"contacts_used":  result.ContactsUsed,
		"contacts_limit": result.ContactsLimit,
		"unlocked_at":    result.UnlockedAt,
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, events.ContactUnlocked, payload); err != nil {
		log.Warn("publish contact.unlocked failed", "error", err)
	}

	if s.tracker != nil {
		s.tracker.Track(ctx, &recruiterID, analytics.EventContactUnlock, map[string]interface{}{
			"driver_id":     result.DriverID.String(),
			"contacts_used": result.ContactsUsed,
		})
	}
}

// IsUnlocked reports whether the recruiter has unlocked the driver.
func (s *contactService) IsUnlocked(ctx context.Context, recruiterID, driverID uuid.UUID) (bool, error) {
	if recruiterID == uuid.Nil {
		return false, nil
	}
	return s.store.IsUnlocked(ctx, recruiterID, driverID)
}

// ListUnlocked lists the recruiter's unlocks, newest first.
func (s *contactService) ListUnlocked(ctx context.Context, recruiterID uuid.UUID) ([]model.ContactUnlock, error) {
	if recruiterID == uuid.Nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return s.store.ListUnlocks(ctx, recruiterID)
}

// GetQuota returns the recruiter's usage, served from cache when possible.
func (s *contactService) GetQuota(ctx context.Context, recruiterID uuid.UUID) (*QuotaView, error) {
	if recruiterID == uuid.Nil {
		return nil, apperrors.ErrNotAuthenticated
	}

	var cached QuotaView
	if s.cache.GetJSON(ctx, quotaKey(recruiterID), &cached) {
		return &cached, nil
	}

	sub, err := s.store.FindSubscription(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	if err := s.checkInvariant(ctx, sub); err != nil {
		return nil, err
	}

	view := newQuotaView(sub)
	s.cache.SetJSON(ctx, quotaKey(recruiterID), view, quotaCacheTTL)
	return view, nil
}

func (s *contactService) InvalidateQuota(ctx context.Context, recruiterID uuid.UUID) {
	_ = s.cache.Delete(ctx, quotaKey(recruiterID))
}

// checkInvariant reports contacts_used > contacts_limit as a data-integrity failure.
func (s *contactService) checkInvariant(ctx context.Context, sub *model.Subscription) error {
	if sub == nil || !sub.Overspent() {
		return nil
	}
	logger.FromContext(ctx).Error("subscription usage exceeds its limit",
		"integrity_violation", true,
		"subscription_id", sub.ID,
		"recruiter_id", sub.RecruiterID,
		"contacts_used", sub.ContactsUsed,
		"contacts_limit", *sub.ContactsLimit,
	)
	return fmt.Errorf("%w: subscription %s", apperrors.ErrInvariantViolation, sub.ID)
}

func newUnlockResult(out *repository.UnlockOutcome) *UnlockResult {
	r := &UnlockResult{
		DriverID:        out.Contact.DriverID,
		Name:            out.Contact.Name,
		Email:           out.Contact.Email,
		Phone:           out.Contact.Phone,
		AlreadyUnlocked: out.AlreadyUnlocked,
		UnlockedAt:      out.UnlockedAt,
	}
	if sub := out.Subscription; sub != nil {
		r.ContactsUsed = sub.ContactsUsed
		r.ContactsLimit = sub.ContactsLimit
		r.Remaining = sub.Remaining()
	}
	return r
}

func newQuotaView(sub *model.Subscription) *QuotaView {
	view := &QuotaView{
		PlanType:         sub.Type,
		Status:           sub.Status,
		ContactsUsed:     sub.ContactsUsed,
		ContactsLimit:    sub.ContactsLimit,
		Remaining:        sub.Remaining(),
		Unlimited:        sub.Unlimited(),
		PriceMonthly:     sub.PriceMonthly,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}
	if sub.ContactsLimit != nil {
		view.PercentageUsed = stats.Percentage(sub.ContactsUsed, *sub.ContactsLimit)
	}
	return view
}

func quotaKey(recruiterID uuid.UUID) string {
	return "quota:" + recruiterID.String()
}
