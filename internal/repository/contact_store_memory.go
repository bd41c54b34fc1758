package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
)

type unlockKey struct {
	recruiterID uuid.UUID
	driverID    uuid.UUID
}

// MemoryContactStore holds contact-unlock state in memory. One mutex guards the whole
// unlock step, which makes it atomic within the process.
//
// Drivers, subscriptions and a recruiter's existing unlocks are read once from the optional
// source and owned by the store afterwards. Unlocks and quota usage are never written back.
type MemoryContactStore struct {
	source ContactSource

	mu            sync.Mutex
	contacts      map[uuid.UUID]model.DriverContact
	subscriptions map[uuid.UUID]*model.Subscription
	unlocks       map[unlockKey]model.ContactUnlock
	// loaded marks recruiters whose source unlocks are already in unlocks.
	loaded map[uuid.UUID]bool
}

var _ ContactStore = (*MemoryContactStore)(nil)

// NewMemoryContactStore creates an in-memory store. source may be nil.
func NewMemoryContactStore(source ContactSource) *MemoryContactStore {
	return &MemoryContactStore{
		source:        source,
		contacts:      make(map[uuid.UUID]model.DriverContact),
		subscriptions: make(map[uuid.UUID]*model.Subscription),
		unlocks:       make(map[unlockKey]model.ContactUnlock),
		loaded:        make(map[uuid.UUID]bool),
	}
}

// PutDriver registers a driver's contact fields.
func (m *MemoryContactStore) PutDriver(contact model.DriverContact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts[contact.DriverID] = contact
}

// PutSubscription stores a copy of sub keyed by its recruiter.
func (m *MemoryContactStore) PutSubscription(sub model.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putSubscription(&sub)
}

func (m *MemoryContactStore) putSubscription(sub *model.Subscription) {
	c := copySubscription(sub)
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.subscriptions[c.RecruiterID] = c
}

// Unlock mirrors the relational store: idempotent per pair, no mutation on rejection.
func (m *MemoryContactStore) Unlock(ctx context.Context, recruiterID, driverID uuid.UUID, at time.Time) (*UnlockOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	contact, err := m.contact(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if err := m.loadUnlocks(ctx, recruiterID); err != nil {
		return nil, err
	}
	sub, err := m.subscription(ctx, recruiterID)
	if err != nil && !errors.Is(err, apperrors.ErrSubscriptionNotFound) {
		return nil, err
	}

	key := unlockKey{recruiterID: recruiterID, driverID: driverID}
	if existing, ok := m.unlocks[key]; ok {
		return &UnlockOutcome{
			Contact:         *contact,
			Subscription:    copySubscription(sub),
			AlreadyUnlocked: true,
			UnlockedAt:      existing.UnlockedAt,
		}, nil
	}

	switch {
	case sub == nil:
		return nil, apperrors.ErrSubscriptionNotFound
	case !sub.Status.CanUnlock():
		return nil, apperrors.ErrSubscriptionInactive
	case sub.ContactsLimit != nil && sub.ContactsUsed >= *sub.ContactsLimit:
		return nil, apperrors.ErrQuotaExceeded
	}

	m.unlocks[key] = model.ContactUnlock{
		ID:          uuid.New(),
		RecruiterID: recruiterID,
		DriverID:    driverID,
		UnlockedAt:  at,
	}
	sub.ContactsUsed++
	sub.UpdatedAt = at

	return &UnlockOutcome{
		Contact:      *contact,
		Subscription: copySubscription(sub),
		UnlockedAt:   at,
	}, nil
}

// IsUnlocked reports whether the pair has been unlocked.
func (m *MemoryContactStore) IsUnlocked(ctx context.Context, recruiterID, driverID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadUnlocks(ctx, recruiterID); err != nil {
		return false, err
	}
	_, ok := m.unlocks[unlockKey{recruiterID: recruiterID, driverID: driverID}]
	return ok, nil
}

// ListUnlocks lists a recruiter's unlocks, newest first.
func (m *MemoryContactStore) ListUnlocks(ctx context.Context, recruiterID uuid.UUID) ([]model.ContactUnlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadUnlocks(ctx, recruiterID); err != nil {
		return nil, err
	}

	var out []model.ContactUnlock
	for key, u := range m.unlocks {
		if key.recruiterID == recruiterID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnlockedAt.After(out[j].UnlockedAt) })
	return out, nil
}

// FindDriverContact returns a driver's contact fields.
func (m *MemoryContactStore) FindDriverContact(ctx context.Context, driverID uuid.UUID) (*model.DriverContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contact(ctx, driverID)
}

// FindSubscription returns a copy of the recruiter's subscription.
func (m *MemoryContactStore) FindSubscription(ctx context.Context, recruiterID uuid.UUID) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, err := m.subscription(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	return copySubscription(sub), nil
}

// SaveSubscription replaces the held subscription unless an unlock moved the usage counter.
func (m *MemoryContactStore) SaveSubscription(ctx context.Context, sub *model.Subscription, expectedUsed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, err := m.subscription(ctx, sub.RecruiterID)
	if err != nil {
		return err
	}
	if current.ContactsUsed != expectedUsed {
		return errSubscriptionMoved
	}
	m.putSubscription(sub)
	return nil
}

// CountUnlocks counts every unlock held, including those loaded from the source so far.
func (m *MemoryContactStore) CountUnlocks(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.unlocks)), nil
}

// contact, subscription and loadUnlocks must be called with mu held.
func (m *MemoryContactStore) contact(ctx context.Context, driverID uuid.UUID) (*model.DriverContact, error) {
	if c, ok := m.contacts[driverID]; ok {
		return &c, nil
	}
	if m.source == nil {
		return nil, apperrors.ErrDriverNotFound
	}
	c, err := m.source.FindDriverContact(ctx, driverID)
	if err != nil {
		return nil, err
	}
	m.contacts[driverID] = *c
	return c, nil
}

func (m *MemoryContactStore) subscription(ctx context.Context, recruiterID uuid.UUID) (*model.Subscription, error) {
	if sub, ok := m.subscriptions[recruiterID]; ok {
		return sub, nil
	}
	if m.source == nil {
		return nil, apperrors.ErrSubscriptionNotFound
	}
	sub, err := m.source.FindSubscription(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	m.putSubscription(sub)
	return m.subscriptions[recruiterID], nil
}

func (m *MemoryContactStore) loadUnlocks(ctx context.Context, recruiterID uuid.UUID) error {
	if m.source == nil || m.loaded[recruiterID] {
		return nil
	}
	existing, err := m.source.ListUnlocks(ctx, recruiterID)
	if err != nil {
		return err
	}
	for _, u := range existing {
		key := unlockKey{recruiterID: u.RecruiterID, driverID: u.DriverID}
		if _, ok := m.unlocks[key]; !ok {
			m.unlocks[key] = u
		}
	}
	m.loaded[recruiterID] = true
	return nil
}

func copySubscription(sub *model.Subscription) *model.Subscription {
	if sub == nil {
		return nil
	}
	c := *sub
	if sub.ContactsLimit != nil {
		l := *sub.ContactsLimit
		c.ContactsLimit = &l
	}
	return &c
}
