package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"truckrecruit/internal/model"
)

// RecruiterRepository defines recruiter persistence operations.
type RecruiterRepository interface {
	Create(ctx context.Context, recruiter *model.Recruiter) error
	Update(ctx context.Context, recruiter *model.Recruiter) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recruiter, error)
}

type recruiterRepository struct {
	db *gorm.DB
}

// NewRecruiterRepository builds a GORM-backed repository.
func NewRecruiterRepository(db *gorm.DB) RecruiterRepository {
	return &recruiterRepository{db: db}
}

func (r *recruiterRepository) Create(ctx context.Context, recruiter *model.Recruiter) error {
	return r.db.WithContext(ctx).Omit("Profile").Create(recruiter).Error
}

// Update saves editable company fields. The unlock counter is owned by the contact store.
func (r *recruiterRepository) Update(ctx context.Context, recruiter *model.Recruiter) error {
	return r.db.WithContext(ctx).Model(&model.Recruiter{}).
		Where("id = ?", recruiter.ID).
		Updates(map[string]interface{}{
			"company_name": recruiter.CompanyName,
			"company_size": recruiter.CompanySize,
			"website":      recruiter.Website,
		}).Error
}

func (r *recruiterRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Recruiter, error) {
	var recruiter model.Recruiter
	if err := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&recruiter).Error; err != nil {
		return nil, err
	}
	return &recruiter, nil
}
