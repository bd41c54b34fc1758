package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the account type a profile signs up with.
type Role string

const (
	RoleDriver    Role = "driver"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDriver, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// Profile is the identity record shared by every role.
type Profile struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;index"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	ProfileImage string    `json:"profile_image,omitempty" gorm:"size:512"`
	Phone        string    `json:"phone,omitempty" gorm:"size:32"`
	Location     string    `json:"location,omitempty" gorm:"size:100"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
