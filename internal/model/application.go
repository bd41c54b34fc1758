package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus represents the status of a job application.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationInterviewed ApplicationStatus = "interviewed"
	ApplicationHired       ApplicationStatus = "hired"
	ApplicationRejected    ApplicationStatus = "rejected"
)

// Application is a driver's application to a job posting.
type Application struct {
	ID          uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	DriverID    uuid.UUID         `json:"driver_id" gorm:"type:char(36);not null;index"`
	JobID       uuid.UUID         `json:"job_id" gorm:"type:char(36);not null;index"`
	RecruiterID uuid.UUID         `json:"recruiter_id" gorm:"type:char(36);not null;index"`
	Status      ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CoverLetter string            `json:"cover_letter,omitempty" gorm:"type:text"`
	Notes       string            `json:"notes,omitempty" gorm:"type:text"`
	AppliedAt   time.Time         `json:"applied_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
