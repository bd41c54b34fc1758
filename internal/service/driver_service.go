package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"truckrecruit/internal/cache"
	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
	"truckrecruit/internal/stats"
)

const driverCacheTTL = 5 * time.Minute

// DriverProfileInput carries the editable driver fields. Nil fields are left unchanged.
type DriverProfileInput struct {
	ExperienceYears     *int
	LicenseTypes        []string
	TWICCard            *bool
	HazmatEndorsement   *bool
	Availability        *model.Availability
	PreferredRoutes     []string
	EquipmentExperience []string
	Bio                 *string
}

// DriverService exposes driver search and profiles. Contact fields are only visible to the
// driver, admins, and recruiters that unlocked the driver.
type DriverService interface {
	Search(ctx context.Context, viewer Viewer, filter repository.DriverFilter) ([]model.Driver, error)
	Get(ctx context.Context, viewer Viewer, id uuid.UUID) (*model.Driver, error)
	UpdateProfile(ctx context.Context, driverID uuid.UUID, in DriverProfileInput) (*model.Driver, error)
}

type driverService struct {
	drivers   repository.DriverRepository
	contacts  repository.ContactStore
	cache     *cache.Client
	validator *InputValidator
}

// NewDriverService creates a new driver service.
func NewDriverService(drivers repository.DriverRepository, contacts repository.ContactStore, cache *cache.Client) DriverService {
	return &driverService{drivers: drivers, contacts: contacts, cache: cache, validator: NewInputValidator()}
}

func driverCacheKey(id uuid.UUID) string { return "driver:" + id.String() }

func (s *driverService) Search(ctx context.Context, viewer Viewer, filter repository.DriverFilter) ([]model.Driver, error) {
	drivers, err := s.drivers.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search drivers: %w", err)
	}
	if viewer.Role == model.RoleAdmin {
		return drivers, nil
	}

	unlocked := map[uuid.UUID]bool{}
	if viewer.Role == model.RoleRecruiter {
		unlocks, err := s.contacts.ListUnlocks(ctx, viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("list unlocks: %w", err)
		}
		for _, u := range unlocks {
			unlocked[u.DriverID] = true
		}
	}

	for i := range drivers {
		if drivers[i].ID != viewer.ID && !unlocked[drivers[i].ID] {
			drivers[i] = drivers[i].Redacted()
		}
	}
	return drivers, nil
}

func (s *driverService) Get(ctx context.Context, viewer Viewer, id uuid.UUID) (*model.Driver, error) {
	var driver model.Driver
	if !s.cache.GetJSON(ctx, driverCacheKey(id), &driver) {
		found, err := s.drivers.FindByID(ctx, id)
		if err != nil {
			return nil, notFound(err, apperrors.ErrDriverNotFound)
		}
		driver = *found
		s.cache.SetJSON(ctx, driverCacheKey(id), driver, driverCacheTTL)
	}

	visible, err := s.contactVisible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if !visible {
		driver = driver.Redacted()
	}
	return &driver, nil
}

func (s *driverService) contactVisible(ctx context.Context, viewer Viewer, driverID uuid.UUID) (bool, error) {
	switch {
	case viewer.ID == driverID, viewer.Role == model.RoleAdmin:
		return true, nil
	case viewer.Role == model.RoleRecruiter:
		ok, err := s.contacts.IsUnlocked(ctx, viewer.ID, driverID)
		if err != nil {
			return false, fmt.Errorf("check unlock: %w", err)
		}
		return ok, nil
	}
	return false, nil
}

func (s *driverService) UpdateProfile(ctx context.Context, driverID uuid.UUID, in DriverProfileInput) (*model.Driver, error) {
	driver, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrDriverNotFound)
	}

	if in.ExperienceYears != nil {
		if *in.ExperienceYears < 0 || *in.ExperienceYears > 60 {
			return nil, fmt.Errorf("%w: experience_years must be between 0 and 60", apperrors.ErrInvalidInput)
		}
		driver.ExperienceYears = *in.ExperienceYears
	}
	if in.LicenseTypes != nil {
		driver.LicenseTypes = cleanList(in.LicenseTypes)
	}
	if in.TWICCard != nil {
		driver.TWICCard = *in.TWICCard
	}
	if in.HazmatEndorsement != nil {
		driver.HazmatEndorsement = *in.HazmatEndorsement
	}
	if in.Availability != nil {
		driver.Availability = *in.Availability
	}
	if in.PreferredRoutes != nil {
		driver.PreferredRoutes = cleanList(in.PreferredRoutes)
	}
	if in.EquipmentExperience != nil {
		driver.EquipmentExperience = cleanList(in.EquipmentExperience)
	}
	if in.Bio != nil {
		driver.Bio = s.validator.Sanitize(*in.Bio)
	}
	driver.ProfileCompletion = ProfileCompletion(driver)

	if err := s.drivers.Update(ctx, driver); err != nil {
		return nil, fmt.Errorf("update driver: %w", err)
	}
	_ = s.cache.Delete(ctx, driverCacheKey(driverID))
	return driver, nil
}

// ProfileCompletion is the percentage of optional profile sections a driver has filled in.
func ProfileCompletion(d *model.Driver) int {
	filled := []bool{
		d.ExperienceYears > 0,
		len(d.LicenseTypes) > 0,
		len(d.PreferredRoutes) > 0,
		len(d.EquipmentExperience) > 0,
		d.Bio != "",
	}
	if d.Profile != nil {
		filled = append(filled, d.Profile.Phone != "", d.Profile.Location != "", d.Profile.ProfileImage != "")
	}
	n := 0
	for _, ok := range filled {
		if ok {
			n++
		}
	}
	return stats.Percentage(n, len(filled))
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
