package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"truckrecruit/internal/model"
)

// JobRepository defines job posting persistence operations.
type JobRepository interface {
	Create(ctx context.Context, job *model.JobPosting) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.JobPosting, error)
	ListActive(ctx context.Context) ([]model.JobPosting, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.JobPosting, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository builds a GORM-backed repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *model.JobPosting) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.JobPosting, error) {
	var job model.JobPosting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) ListActive(ctx context.Context) ([]model.JobPosting, error) {
	var jobs []model.JobPosting
	if err := r.db.WithContext(ctx).Where("active = ?", true).
		Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]model.JobPosting, error) {
	var jobs []model.JobPosting
	if err := r.db.WithContext(ctx).Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.JobPosting{}).
		Where("id = ?", id).Update("active", active).Error
}
