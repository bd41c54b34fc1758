package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactUnlock records that a recruiter revealed a driver's contact fields.
// At most one row exists per (recruiter, driver) pair; rows are never updated.
type ContactUnlock struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	RecruiterID uuid.UUID `json:"recruiter_id" gorm:"type:char(36);not null;uniqueIndex:idx_unlock_pair"`
	DriverID    uuid.UUID `json:"driver_id" gorm:"type:char(36);not null;uniqueIndex:idx_unlock_pair;index"`
	UnlockedAt  time.Time `json:"unlocked_at" gorm:"not null"`
}

// BeforeCreate sets UUID before creating the record.
func (u *ContactUnlock) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
