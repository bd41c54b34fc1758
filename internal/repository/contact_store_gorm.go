package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
)

var unlockableStatuses = []model.SubscriptionStatus{model.SubscriptionActive, model.SubscriptionTrial}

type contactStore struct {
	db *gorm.DB
}

// NewContactStore returns the relational ContactStore. Idempotence rests on the unique
// (recruiter_id, driver_id) index and the quota check on a conditional UPDATE, so concurrent
// callers are serialised by the database rather than by this process.
func NewContactStore(db *gorm.DB) ContactStore {
	return &contactStore{db: db}
}

// Unlock inserts the unlock row and consumes one unit of quota in one transaction.
func (s *contactStore) Unlock(ctx context.Context, recruiterID, driverID uuid.UUID, at time.Time) (*UnlockOutcome, error) {
	out := &UnlockOutcome{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contact, err := findContact(tx, driverID)
		if err != nil {
			return err
		}
		out.Contact = *contact

		unlock := &model.ContactUnlock{RecruiterID: recruiterID, DriverID: driverID, UnlockedAt: at}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(unlock)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// The pair was unlocked before; nothing is consumed.
			var existing model.ContactUnlock
			if err := tx.Where("recruiter_id = ? AND driver_id = ?", recruiterID, driverID).
				First(&existing).Error; err != nil {
				return err
			}
			out.AlreadyUnlocked = true
			out.UnlockedAt = existing.UnlockedAt
			sub, err := findSubscription(tx, recruiterID)
			if err != nil && !errors.Is(err, apperrors.ErrSubscriptionNotFound) {
				return err
			}
			out.Subscription = sub
			return nil
		}

		res = tx.Model(&model.Subscription{}).
			Where("recruiter_id = ?", recruiterID).
			Where("status IN ?", unlockableStatuses).
			Where("(contacts_limit IS NULL OR contacts_used < contacts_limit)").
			Updates(map[string]interface{}{
				"contacts_used": gorm.Expr("contacts_used + ?", 1),
				"updated_at":    at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Returning an error rolls back the unlock row inserted above.
			return rejection(tx, recruiterID)
		}

		if err := tx.Model(&model.Recruiter{}).
			Where("id = ?", recruiterID).
			UpdateColumn("contacts_unlocked", gorm.Expr("contacts_unlocked + ?", 1)).Error; err != nil {
			return err
		}

		sub, err := findSubscription(tx, recruiterID)
		if err != nil {
			return err
		}
		out.Subscription = sub
		out.UnlockedAt = at
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// IsUnlocked reports whether the pair has an unlock row.
func (s *contactStore) IsUnlocked(ctx context.Context, recruiterID, driverID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ContactUnlock{}).
		Where("recruiter_id = ? AND driver_id = ?", recruiterID, driverID).
		Count(&count).Error
	if err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

// ListUnlocks lists a recruiter's unlocks, newest first.
func (s *contactStore) ListUnlocks(ctx context.Context, recruiterID uuid.UUID) ([]model.ContactUnlock, error) {
	var unlocks []model.ContactUnlock
	if err := s.db.WithContext(ctx).Where("recruiter_id = ?", recruiterID).
		Order("unlocked_at DESC").Find(&unlocks).Error; err != nil {
		return nil, classify(err)
	}
	return unlocks, nil
}

// FindSubscription reads a recruiter's subscription.
func (s *contactStore) FindSubscription(ctx context.Context, recruiterID uuid.UUID) (*model.Subscription, error) {
	sub, err := findSubscription(s.db.WithContext(ctx), recruiterID)
	if err != nil {
		return nil, classify(err)
	}
	return sub, nil
}

// FindDriverContact reads a driver's contact fields.
func (s *contactStore) FindDriverContact(ctx context.Context, driverID uuid.UUID) (*model.DriverContact, error) {
	contact, err := findContact(s.db.WithContext(ctx), driverID)
	if err != nil {
		return nil, classify(err)
	}
	return contact, nil
}

// SaveSubscription writes the billing fields of sub unless an unlock moved the usage counter.
func (s *contactStore) SaveSubscription(ctx context.Context, sub *model.Subscription, expectedUsed int) error {
	ok, err := NewSubscriptionRepository(s.db).CompareAndUpdate(ctx, sub, expectedUsed)
	if err != nil {
		return classify(err)
	}
	if !ok {
		return errSubscriptionMoved
	}
	return nil
}

// CountUnlocks counts every unlock ever made.
func (s *contactStore) CountUnlocks(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.ContactUnlock{}).Count(&count).Error; err != nil {
		return 0, classify(err)
	}
	return count, nil
}

func findContact(tx *gorm.DB, driverID uuid.UUID) (*model.DriverContact, error) {
	var contact model.DriverContact
	err := tx.Table("drivers").
		Select("drivers.id AS driver_id, profiles.name AS name, profiles.email AS email, profiles.phone AS phone").
		Joins("JOIN profiles ON profiles.id = drivers.id").
		Where("drivers.id = ?", driverID).
		Take(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrDriverNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func findSubscription(tx *gorm.DB, recruiterID uuid.UUID) (*model.Subscription, error) {
	var sub model.Subscription
	err := tx.Where("recruiter_id = ?", recruiterID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// rejection explains why the conditional increment matched no row.
func rejection(tx *gorm.DB, recruiterID uuid.UUID) error {
	sub, err := findSubscription(tx, recruiterID)
	if err != nil {
		return err
	}
	if !sub.Status.CanUnlock() {
		return apperrors.ErrSubscriptionInactive
	}
	return apperrors.ErrQuotaExceeded
}
