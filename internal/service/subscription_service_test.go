package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/events"
	"truckrecruit/internal/model"
)

func TestSubscriptionService_Update(t *testing.T) {
	ctx := context.Background()
	pro := model.PlanPro
	enterprise := model.PlanEnterprise
	cancelled := model.SubscriptionCancelled
	bogusPlan := model.PlanType("gold")

	tests := []struct {
		name      string
		used      int
		in        SubscriptionUpdate
		wantErr   error
		wantLimit *int
		wantUsed  int
		wantType  model.PlanType
	}{
		{name: "upgrade applies plan limit", used: 20, in: SubscriptionUpdate{Type: &pro}, wantLimit: intPtr(100), wantUsed: 20, wantType: model.PlanPro},
		{name: "enterprise is unlimited", used: 20, in: SubscriptionUpdate{Type: &enterprise}, wantLimit: nil, wantUsed: 20, wantType: model.PlanEnterprise},
		{name: "pay-per-contact credits", used: 25, in: SubscriptionUpdate{ContactsLimit: intPtr(30)}, wantLimit: intPtr(30), wantUsed: 25, wantType: model.PlanStarter},
		{name: "new period resets usage", used: 25, in: SubscriptionUpdate{ResetUsage: true}, wantLimit: intPtr(25), wantUsed: 0, wantType: model.PlanStarter},
		{name: "limit below usage", used: 20, in: SubscriptionUpdate{ContactsLimit: intPtr(10)}, wantErr: apperrors.ErrInvalidInput},
		{name: "negative limit", used: 0, in: SubscriptionUpdate{ContactsLimit: intPtr(-1)}, wantErr: apperrors.ErrInvalidInput},
		{name: "unknown plan", used: 0, in: SubscriptionUpdate{Type: &bogusPlan}, wantErr: apperrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlatform(t)
			svc := NewSubscriptionService(p.store, p.contacts, nil)
			recruiterID := p.recruiter(t, intPtr(25), tt.used)

			sub, err := svc.Update(ctx, recruiterID, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				got, err := p.store.FindSubscription(ctx, recruiterID)
				require.NoError(t, err)
				assert.Equal(t, tt.used, got.ContactsUsed)
				assert.Equal(t, 25, *got.ContactsLimit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, sub.Type)

			got, err := p.store.FindSubscription(ctx, recruiterID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, got.ContactsLimit)
			assert.Equal(t, tt.wantUsed, got.ContactsUsed)
		})
	}

	t.Run("cancel blocks unlocks", func(t *testing.T) {
		p := newPlatform(t)
		svc := NewSubscriptionService(p.store, p.contacts, nil)
		recruiterID := p.recruiter(t, intPtr(25), 0)
		driverID := p.driver(t, "Blocked Driver", 5)

		_, err := svc.Update(ctx, recruiterID, SubscriptionUpdate{Status: &cancelled})
		require.NoError(t, err)

		_, err = p.contacts.UnlockContact(ctx, recruiterID, driverID)
		assert.ErrorIs(t, err, apperrors.ErrSubscriptionInactive)
	})

	t.Run("missing subscription", func(t *testing.T) {
		p := newPlatform(t)
		svc := NewSubscriptionService(p.store, p.contacts, nil)
		_, err := svc.Update(ctx, uuid.New(), SubscriptionUpdate{Type: &pro})
		assert.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
	})
}

func TestSubscriptionService_UpgradeRefreshesQuotaAndPublishes(t *testing.T) {
	ctx := context.Background()
	p := newPlatform(t)
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, events.SubscriptionChanged, mock.AnythingOfType("*model.Subscription")).Return(assert.AnError).Once()
	svc := NewSubscriptionService(p.store, p.contacts, publisher)

	recruiterID := p.recruiter(t, intPtr(1), 1)
	driverID := p.driver(t, "Waiting Driver", 7)

	_, err := p.contacts.UnlockContact(ctx, recruiterID, driverID)
	require.ErrorIs(t, err, apperrors.ErrQuotaExceeded)

	// A failed publish does not fail the update.
	pro := model.PlanPro
	_, err = svc.Update(ctx, recruiterID, SubscriptionUpdate{Type: &pro})
	require.NoError(t, err)

	quota, err := p.contacts.GetQuota(ctx, recruiterID)
	require.NoError(t, err)
	assert.Equal(t, 100, *quota.ContactsLimit)

	res, err := p.contacts.UnlockContact(ctx, recruiterID, driverID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ContactsUsed)
	publisher.AssertExpectations(t)
}

func TestSubscriptionService_ConflictWhenUsageMoves(t *testing.T) {
	ctx := context.Background()
	store := new(MockContactStore)
	contacts := NewContactService(store, nil, nil, nil, 1, 0)
	svc := NewSubscriptionService(store, contacts, nil)

	recruiterID := uuid.New()
	store.On("FindSubscription", mock.Anything, recruiterID).
		Return(&model.Subscription{RecruiterID: recruiterID, Type: model.PlanStarter, Status: model.SubscriptionActive, ContactsLimit: intPtr(25), ContactsUsed: 4}, nil).Once()
	store.On("SaveSubscription", mock.Anything, mock.Anything, 4).
		Return(apperrors.ErrConflict).Once()

	_, err := svc.Update(ctx, recruiterID, SubscriptionUpdate{ContactsLimit: intPtr(50)})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	store.AssertExpectations(t)
}
