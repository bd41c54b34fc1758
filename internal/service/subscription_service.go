package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/events"
	"truckrecruit/internal/logger"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

// SubscriptionUpdate is an administrative change to a recruiter's plan. Nil fields are left
// unchanged. Setting Type without ContactsLimit applies that plan's limit and price.
type SubscriptionUpdate struct {
	Type             *model.PlanType
	Status           *model.SubscriptionStatus
	ContactsLimit    *int
	Unlimited        bool
	PriceMonthly     *decimal.Decimal
	CurrentPeriodEnd *time.Time
	// ResetUsage starts a new billing period with zero contacts used.
	ResetUsage bool
}

// SubscriptionService applies billing changes coming from outside the unlock flow.
type SubscriptionService interface {
	Get(ctx context.Context, recruiterID uuid.UUID) (*model.Subscription, error)
	Update(ctx context.Context, recruiterID uuid.UUID, in SubscriptionUpdate) (*model.Subscription, error)
}

type subscriptionService struct {
	store     repository.ContactStore
	contacts  ContactService
	publisher events.Publisher
	now       func() time.Time
}

// NewSubscriptionService creates a new subscription service. Writes go through the same
// ContactStore the unlock path uses so that both see one copy of the counters.
func NewSubscriptionService(store repository.ContactStore, contacts ContactService, publisher events.Publisher) SubscriptionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &subscriptionService{
		store:     store,
		contacts:  contacts,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *subscriptionService) Get(ctx context.Context, recruiterID uuid.UUID) (*model.Subscription, error) {
	return s.store.FindSubscription(ctx, recruiterID)
}

func (s *subscriptionService) Update(ctx context.Context, recruiterID uuid.UUID, in SubscriptionUpdate) (*model.Subscription, error) {
	sub, err := s.store.FindSubscription(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	readUsed := sub.ContactsUsed

	if in.Type != nil {
		plan, ok := model.Plans[*in.Type]
		if !ok {
			return nil, fmt.Errorf("%w: unknown plan type %q", apperrors.ErrInvalidInput, *in.Type)
		}
		sub.Type = plan.Type
		sub.ContactsLimit = plan.Limit()
		sub.PriceMonthly = plan.PriceMonthly
	}
	if in.Status != nil {
		switch *in.Status {
		case model.SubscriptionActive, model.SubscriptionTrial, model.SubscriptionCancelled, model.SubscriptionExpired:
			sub.Status = *in.Status
		default:
			return nil, fmt.Errorf("%w: unknown subscription status %q", apperrors.ErrInvalidInput, *in.Status)
		}
	}
	switch {
	case in.Unlimited:
		sub.ContactsLimit = nil
	case in.ContactsLimit != nil:
		if *in.ContactsLimit < 0 {
			return nil, fmt.Errorf("%w: contacts_limit must not be negative", apperrors.ErrInvalidInput)
		}
		limit := *in.ContactsLimit
		sub.ContactsLimit = &limit
	}
	if in.PriceMonthly != nil {
		if in.PriceMonthly.IsNegative() {
			return nil, fmt.Errorf("%w: price_monthly must not be negative", apperrors.ErrInvalidInput)
		}
		sub.PriceMonthly = *in.PriceMonthly
	}
	if in.ResetUsage {
		sub.ContactsUsed = 0
		sub.CurrentPeriodStart = s.now()
	}
	if in.CurrentPeriodEnd != nil {
		sub.CurrentPeriodEnd = in.CurrentPeriodEnd
	}

	if sub.Overspent() {
		return nil, fmt.Errorf("%w: contacts_limit %d is below contacts_used %d; reset usage to lower it",
			apperrors.ErrInvalidInput, *sub.ContactsLimit, sub.ContactsUsed)
	}

	if err := s.store.SaveSubscription(ctx, sub, readUsed); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}
	s.contacts.InvalidateQuota(ctx, recruiterID)

	logger.FromContext(ctx).Info("subscription updated",
		"recruiter_id", recruiterID, "type", sub.Type, "status", sub.Status, "contacts_used", sub.ContactsUsed)
	if err := s.publisher.Publish(ctx, events.SubscriptionChanged, sub); err != nil {
		logger.FromContext(ctx).Warn("publish subscription.changed failed", "error", err)
	}
	return sub, nil
}
