package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"truckrecruit/internal/model"
)

// ApplicationRepository defines job application persistence operations.
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	Exists(ctx context.Context, driverID, jobID uuid.UUID) (bool, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]model.Application, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, notes string) error
	CountByStatusForDriver(ctx context.Context, driverID uuid.UUID) (map[model.ApplicationStatus]int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository builds a GORM-backed repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) Exists(ctx context.Context, driverID, jobID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("driver_id = ? AND job_id = ?", driverID, jobID).Count(&count).Error
	return count > 0, err
}

func (r *applicationRepository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]model.Application, error) {
	var apps []model.Application
	if err := r.db.WithContext(ctx).Where("driver_id = ?", driverID).
		Order("applied_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.Application, error) {
	var apps []model.Application
	if err := r.db.WithContext(ctx).Where("recruiter_id = ?", recruiterID).
		Order("applied_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, notes string) error {
	updates := map[string]interface{}{"status": status}
	if notes != "" {
		updates["notes"] = notes
	}
	return r.db.WithContext(ctx).Model(&model.Application{}).Where("id = ?", id).Updates(updates).Error
}

func (r *applicationRepository) CountByStatusForDriver(ctx context.Context, driverID uuid.UUID) (map[model.ApplicationStatus]int64, error) {
	var rows []struct {
		Status model.ApplicationStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Application{}).
		Select("status, COUNT(*) AS count").
		Where("driver_id = ?", driverID).
		Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
