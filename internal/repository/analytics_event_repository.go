package repository

import (
	"context"

	"gorm.io/gorm"

	"truckrecruit/internal/model"
)

// AnalyticsEventRepository persists tracked product events.
type AnalyticsEventRepository interface {
	CreateBatch(ctx context.Context, events []model.AnalyticsEvent) error
	Count(ctx context.Context, eventType string) (int64, error)
}

type analyticsEventRepository struct {
	db *gorm.DB
}

// NewAnalyticsEventRepository builds a GORM-backed repository.
func NewAnalyticsEventRepository(db *gorm.DB) AnalyticsEventRepository {
	return &analyticsEventRepository{db: db}
}

func (r *analyticsEventRepository) CreateBatch(ctx context.Context, events []model.AnalyticsEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(events, 100).Error
}

// Count counts events of one type, or all events when eventType is empty.
func (r *analyticsEventRepository) Count(ctx context.Context, eventType string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AnalyticsEvent{})
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}
