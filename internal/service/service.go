package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"truckrecruit/internal/model"
)

// Viewer identifies the authenticated caller for role-scoped reads.
type Viewer struct {
	ID   uuid.UUID
	Role model.Role
}

// notFound translates gorm's missing-row error into the given domain error.
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
