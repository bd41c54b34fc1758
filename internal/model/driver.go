package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Availability is a driver's job-market status.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityEmployed  Availability = "employed"
	AvailabilitySeeking   Availability = "seeking"
)

// Driver extends a Profile with role=driver. ID equals the profile ID.
type Driver struct {
	ID                  uuid.UUID                   `json:"id" gorm:"type:char(36);primaryKey"`
	ExperienceYears     int                         `json:"experience_years" gorm:"not null;default:0;index"`
	LicenseTypes        datatypes.JSONSlice[string] `json:"license_types"`
	TWICCard            bool                        `json:"twic_card" gorm:"column:twic_card;default:false"`
	HazmatEndorsement   bool                        `json:"hazmat_endorsement" gorm:"default:false"`
	Availability        Availability                `json:"availability" gorm:"type:varchar(20);not null;default:'available';index"`
	PreferredRoutes     datatypes.JSONSlice[string] `json:"preferred_routes"`
	EquipmentExperience datatypes.JSONSlice[string] `json:"equipment_experience"`
	FitScore            float64                     `json:"fit_score" gorm:"not null;default:0;index"`
	ProfileCompletion   int                         `json:"profile_completion" gorm:"not null;default:0"`
	DocumentsVerified   bool                        `json:"documents_verified" gorm:"default:false"`
	Bio                 string                      `json:"bio,omitempty" gorm:"type:text"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`

	// Relations
	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:ID;references:ID"`
}

// DriverContact holds the private fields revealed by a contact unlock.
type DriverContact struct {
	DriverID uuid.UUID `json:"driver_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
}

// Redacted returns a copy of the driver whose profile has no email or phone.
func (d Driver) Redacted() Driver {
	if d.Profile != nil {
		p := *d.Profile
		p.Email = ""
		p.Phone = ""
		d.Profile = &p
	}
	return d
}
