package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"truckrecruit/internal/model"
)

// InterviewRepository defines interview persistence operations.
type InterviewRepository interface {
	Create(ctx context.Context, interview *model.Interview) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Interview, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.Interview, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]model.Interview, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.InterviewStatus, notes string) error
	CountScheduledBetween(ctx context.Context, recruiterID uuid.UUID, from, to time.Time) (int64, error)
	ListUpcomingForDriver(ctx context.Context, driverID uuid.UUID, after time.Time, limit int) ([]model.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

// NewInterviewRepository builds a GORM-backed repository.
func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(ctx context.Context, interview *model.Interview) error {
	return r.db.WithContext(ctx).Create(interview).Error
}

func (r *interviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	var interview model.Interview
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&interview).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.Interview, error) {
	var interviews []model.Interview
	if err := r.db.WithContext(ctx).Where("recruiter_id = ?", recruiterID).
		Order("scheduled_at ASC").Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

func (r *interviewRepository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]model.Interview, error) {
	var interviews []model.Interview
	if err := r.db.WithContext(ctx).Where("driver_id = ?", driverID).
		Order("scheduled_at ASC").Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

func (r *interviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InterviewStatus, notes string) error {
	updates := map[string]interface{}{"status": status}
	if notes != "" {
		updates["notes"] = notes
	}
	return r.db.WithContext(ctx).Model(&model.Interview{}).Where("id = ?", id).Updates(updates).Error
}

// CountScheduledBetween counts a recruiter's scheduled interviews in [from, to).
func (r *interviewRepository) CountScheduledBetween(ctx context.Context, recruiterID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Interview{}).
		Where("recruiter_id = ? AND status = ?", recruiterID, model.InterviewScheduled).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *interviewRepository) ListUpcomingForDriver(ctx context.Context, driverID uuid.UUID, after time.Time, limit int) ([]model.Interview, error) {
	var interviews []model.Interview
	if err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status = ? AND scheduled_at >= ?", driverID, model.InterviewScheduled, after).
		Order("scheduled_at ASC").Limit(limit).Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}
