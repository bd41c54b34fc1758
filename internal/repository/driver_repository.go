package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"truckrecruit/internal/model"
)

// DriverFilter narrows a driver search. Zero values mean "no constraint".
type DriverFilter struct {
	Search        string
	Location      string
	ExperienceMin *int
	ExperienceMax *int
	LicenseType   string
	Availability  model.Availability
	TWICCard      *bool
	Hazmat        *bool
	Equipment     string
	FitScoreMin   *float64
	Limit         int
	Offset        int
}

// DriverRepository defines driver persistence operations.
type DriverRepository interface {
	Create(ctx context.Context, driver *model.Driver) error
	Update(ctx context.Context, driver *model.Driver) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Driver, error)
	Search(ctx context.Context, filter DriverFilter) ([]model.Driver, error)
	Top(ctx context.Context, n int) ([]model.Driver, error)
	CountAvailable(ctx context.Context) (int64, error)
	FitScores(ctx context.Context) ([]float64, error)
}

type driverRepository struct {
	db *gorm.DB
}

// NewDriverRepository builds a GORM-backed repository.
func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) Create(ctx context.Context, driver *model.Driver) error {
	return r.db.WithContext(ctx).Omit("Profile").Create(driver).Error
}

func (r *driverRepository) Update(ctx context.Context, driver *model.Driver) error {
	return r.db.WithContext(ctx).Omit("Profile").Save(driver).Error
}

func (r *driverRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	var driver model.Driver
	if err := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&driver).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

// Search lists drivers matching filter ordered by fit score. List-valued columns are
// JSON, so license and equipment matching happens after the query.
func (r *driverRepository) Search(ctx context.Context, filter DriverFilter) ([]model.Driver, error) {
	q := r.db.WithContext(ctx).Model(&model.Driver{}).
		Preload("Profile").
		Joins("JOIN profiles ON profiles.id = drivers.id").
		Order("drivers.fit_score DESC")

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(profiles.name) LIKE ? OR LOWER(drivers.bio) LIKE ?)", like, like)
	}
	if filter.Location != "" {
		q = q.Where("LOWER(profiles.location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.ExperienceMin != nil {
		q = q.Where("drivers.experience_years >= ?", *filter.ExperienceMin)
	}
	if filter.ExperienceMax != nil {
		q = q.Where("drivers.experience_years <= ?", *filter.ExperienceMax)
	}
	if filter.Availability != "" {
		q = q.Where("drivers.availability = ?", filter.Availability)
	}
	if filter.TWICCard != nil {
		q = q.Where("drivers.twic_card = ?", *filter.TWICCard)
	}
	if filter.Hazmat != nil {
		q = q.Where("drivers.hazmat_endorsement = ?", *filter.Hazmat)
	}
	if filter.FitScoreMin != nil {
		q = q.Where("drivers.fit_score >= ?", *filter.FitScoreMin)
	}

	var drivers []model.Driver
	if err := q.Find(&drivers).Error; err != nil {
		return nil, err
	}

	out := drivers[:0]
	for _, d := range drivers {
		if filter.LicenseType != "" && !containsFold(d.LicenseTypes, filter.LicenseType) {
			continue
		}
		if filter.Equipment != "" && !containsFold(d.EquipmentExperience, filter.Equipment) {
			continue
		}
		out = append(out, d)
	}
	return paginate(out, filter.Offset, filter.Limit), nil
}

// Top returns the n best drivers by fit score.
func (r *driverRepository) Top(ctx context.Context, n int) ([]model.Driver, error) {
	var drivers []model.Driver
	if err := r.db.WithContext(ctx).Preload("Profile").
		Order("fit_score DESC").Limit(n).Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *driverRepository) CountAvailable(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Driver{}).
		Where("availability IN ?", []model.Availability{model.AvailabilityAvailable, model.AvailabilitySeeking}).
		Count(&count).Error
	return count, err
}

func (r *driverRepository) FitScores(ctx context.Context) ([]float64, error) {
	var scores []float64
	if err := r.db.WithContext(ctx).Model(&model.Driver{}).Pluck("fit_score", &scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
