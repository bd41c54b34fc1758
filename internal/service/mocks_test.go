package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

// MockContactStore is a mock implementation of repository.ContactStore.
type MockContactStore struct {
	mock.Mock
}

func (m *MockContactStore) Unlock(ctx context.Context, recruiterID, driverID uuid.UUID, at time.Time) (*repository.UnlockOutcome, error) {
	args := m.Called(ctx, recruiterID, driverID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UnlockOutcome), args.Error(1)
}

func (m *MockContactStore) IsUnlocked(ctx context.Context, recruiterID, driverID uuid.UUID) (bool, error) {
	args := m.Called(ctx, recruiterID, driverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockContactStore) ListUnlocks(ctx context.Context, recruiterID uuid.UUID) ([]model.ContactUnlock, error) {
	args := m.Called(ctx, recruiterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContactUnlock), args.Error(1)
}

func (m *MockContactStore) FindDriverContact(ctx context.Context, driverID uuid.UUID) (*model.DriverContact, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DriverContact), args.Error(1)
}

func (m *MockContactStore) FindSubscription(ctx context.Context, recruiterID uuid.UUID) (*model.Subscription, error) {
	args := m.Called(ctx, recruiterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockContactStore) SaveSubscription(ctx context.Context, sub *model.Subscription, expectedUsed int) error {
	args := m.Called(ctx, sub, expectedUsed)
	return args.Error(0)
}

func (m *MockContactStore) CountUnlocks(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// trackedEvent is one call recorded by recordingTracker.
type trackedEvent struct {
	UserID    *uuid.UUID
	EventType string
	Data      map[string]interface{}
}

type recordingTracker struct {
	mu     sync.Mutex
	events []trackedEvent
}

func (r *recordingTracker) Track(ctx context.Context, userID *uuid.UUID, eventType string, data map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, trackedEvent{UserID: userID, EventType: eventType, Data: data})
}

func (r *recordingTracker) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType
	}
	return out
}
