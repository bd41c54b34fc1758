package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlanType is the billing plan of a subscription.
type PlanType string

const (
	PlanStarter       PlanType = "starter"
	PlanPro           PlanType = "pro"
	PlanEnterprise    PlanType = "enterprise"
	PlanPayPerContact PlanType = "pay-per-contact"
)

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionTrial     SubscriptionStatus = "trial"
)

// CanUnlock reports whether a subscription in this status may consume quota.
func (s SubscriptionStatus) CanUnlock() bool {
	return s == SubscriptionActive || s == SubscriptionTrial
}

// TrialPeriod is how long a fresh recruiter subscription stays in trial.
const TrialPeriod = 14 * 24 * time.Hour

// Plan describes the quota and price attached to a plan type.
type Plan struct {
	Type          PlanType        `json:"type"`
	ContactsLimit *int            `json:"contacts_limit"`
	PriceMonthly  decimal.Decimal `json:"price_monthly"`
}

func limit(n int) *int { return &n }

// Limit returns a fresh copy of the plan's contact ceiling.
func (p Plan) Limit() *int {
	if p.ContactsLimit == nil {
		return nil
	}
	return limit(*p.ContactsLimit)
}

// Plans lists the purchasable plans keyed by type.
var Plans = map[PlanType]Plan{
	PlanStarter:       {Type: PlanStarter, ContactsLimit: limit(25), PriceMonthly: decimal.NewFromInt(99)},
	PlanPro:           {Type: PlanPro, ContactsLimit: limit(100), PriceMonthly: decimal.NewFromInt(199)},
	PlanEnterprise:    {Type: PlanEnterprise, ContactsLimit: nil, PriceMonthly: decimal.NewFromInt(399)},
	PlanPayPerContact: {Type: PlanPayPerContact, ContactsLimit: limit(0), PriceMonthly: decimal.Zero},
}

// Subscription belongs to exactly one recruiter. A nil ContactsLimit means unlimited.
// ContactsUsed never exceeds ContactsLimit when the limit is set.
type Subscription struct {
	ID                 uuid.UUID          `json:"id" gorm:"type:char(36);primaryKey"`
	RecruiterID        uuid.UUID          `json:"recruiter_id" gorm:"type:char(36);not null;uniqueIndex"`
	Type               PlanType           `json:"type" gorm:"type:varchar(20);not null"`
	Status             SubscriptionStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	ContactsLimit      *int               `json:"contacts_limit"`
	ContactsUsed       int                `json:"contacts_used" gorm:"not null;default:0"`
	PriceMonthly       decimal.Decimal    `json:"price_monthly" gorm:"type:decimal(10,2);not null;default:0"`
	CurrentPeriodStart time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   *time.Time         `json:"current_period_end,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Unlimited reports whether the subscription has no contact ceiling.
func (s *Subscription) Unlimited() bool {
	return s.ContactsLimit == nil
}

// Remaining returns the unlocks left, or nil when unlimited.
func (s *Subscription) Remaining() *int {
	if s.ContactsLimit == nil {
		return nil
	}
	r := *s.ContactsLimit - s.ContactsUsed
	if r < 0 {
		r = 0
	}
	return &r
}

// Overspent reports the data-integrity violation contacts_used > contacts_limit.
func (s *Subscription) Overspent() bool {
	return s.ContactsLimit != nil && s.ContactsUsed > *s.ContactsLimit
}

// NewTrialSubscription returns the subscription a recruiter gets at sign-up.
func NewTrialSubscription(recruiterID uuid.UUID, now time.Time) *Subscription {
	plan := Plans[PlanStarter]
	end := now.Add(TrialPeriod)
	return &Subscription{
		RecruiterID:        recruiterID,
		Type:               plan.Type,
		Status:             SubscriptionTrial,
		ContactsLimit:      plan.Limit(),
		PriceMonthly:       plan.PriceMonthly,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   &end,
	}
}
