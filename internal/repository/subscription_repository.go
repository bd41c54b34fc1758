package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"truckrecruit/internal/model"
)

// SubscriptionRepository defines subscription persistence operations outside the unlock path.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) error
	FindByRecruiterID(ctx context.Context, recruiterID uuid.UUID) (*model.Subscription, error)
	CompareAndUpdate(ctx context.Context, sub *model.Subscription, expectedUsed int) (bool, error)
	CountByStatus(ctx context.Context) (map[model.SubscriptionStatus]int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository builds a GORM-backed repository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) FindByRecruiterID(ctx context.Context, recruiterID uuid.UUID) (*model.Subscription, error) {
	var sub model.Subscription
	if err := r.db.WithContext(ctx).Where("recruiter_id = ?", recruiterID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// CompareAndUpdate writes plan, status, limit, usage and period if contacts_used still equals
// expectedUsed. It reports false when a concurrent unlock moved the counter first.
func (r *subscriptionRepository) CompareAndUpdate(ctx context.Context, sub *model.Subscription, expectedUsed int) (bool, error) {
	sub.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ? AND contacts_used = ?", sub.ID, expectedUsed).
		Select("type", "status", "contacts_limit", "contacts_used", "price_monthly",
			"current_period_start", "current_period_end", "updated_at").
		Updates(sub)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *subscriptionRepository) CountByStatus(ctx context.Context) (map[model.SubscriptionStatus]int64, error) {
	var rows []struct {
		Status model.SubscriptionStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.SubscriptionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
