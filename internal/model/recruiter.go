package model

import (
	"time"

	"github.com/google/uuid"
)

// Recruiter extends a Profile with role=recruiter. ID equals the profile ID.
type Recruiter struct {
	ID               uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	CompanyName      string    `json:"company_name" gorm:"size:100;not null"`
	CompanySize      string    `json:"company_size,omitempty" gorm:"size:50"`
	Website          string    `json:"website,omitempty" gorm:"size:255"`
	ContactsUnlocked int       `json:"contacts_unlocked" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:ID;references:ID"`
}
