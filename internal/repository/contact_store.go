package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
)

// UnlockOutcome is the result of one atomic unlock step.
type UnlockOutcome struct {
	Contact model.DriverContact
	// Subscription is the recruiter's subscription after the step. Nil only when an
	// already-unlocked pair belongs to a recruiter whose subscription has since been removed.
	Subscription    *model.Subscription
	AlreadyUnlocked bool
	UnlockedAt      time.Time
}

// ContactStore is the backing-store contract of the contact-unlock core.
//
// Unlock must run as a single atomic step: the existence check, the unlock insert and the
// conditional quota increment either all apply or none do. It returns ErrDriverNotFound,
// ErrSubscriptionNotFound, ErrSubscriptionInactive or ErrQuotaExceeded from the internal errors
// package without mutating anything, and wraps connectivity failures in ErrTransientStore.
type ContactStore interface {
	ContactSource
	Unlock(ctx context.Context, recruiterID, driverID uuid.UUID, at time.Time) (*UnlockOutcome, error)
	IsUnlocked(ctx context.Context, recruiterID, driverID uuid.UUID) (bool, error)
	// SaveSubscription replaces plan, status, limit, usage and period if contacts_used still
	// equals expectedUsed, and fails with ErrConflict otherwise. It is the billing path.
	SaveSubscription(ctx context.Context, sub *model.Subscription, expectedUsed int) error
	CountUnlocks(ctx context.Context) (int64, error)
}

// ContactSource resolves the records an unlock reads.
type ContactSource interface {
	FindDriverContact(ctx context.Context, driverID uuid.UUID) (*model.DriverContact, error)
	FindSubscription(ctx context.Context, recruiterID uuid.UUID) (*model.Subscription, error)
	ListUnlocks(ctx context.Context, recruiterID uuid.UUID) ([]model.ContactUnlock, error)
}

var (
	errUnknownStore      = errors.New("unknown contact store")
	errSubscriptionMoved = fmt.Errorf("%w: subscription usage changed concurrently, retry", apperrors.ErrConflict)
)

// NewContactStoreFor selects a ContactStore implementation by name: "sql" or "memory".
// The memory store reads drivers and subscriptions from the database on first use.
func NewContactStoreFor(kind string, repos *Repositories) (ContactStore, error) {
	switch kind {
	case "", "sql":
		return NewContactStore(repos.DB()), nil
	case "memory":
		return NewMemoryContactStore(NewContactStore(repos.DB())), nil
	default:
		return nil, errUnknownStore
	}
}
