package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InterviewStatus represents the status of an interview.
type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
	InterviewCancelled InterviewStatus = "cancelled"
	InterviewNoShow    InterviewStatus = "no-show"
)

// Interview is a meeting a recruiter schedules with a driver.
type Interview struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	RecruiterID     uuid.UUID       `json:"recruiter_id" gorm:"type:char(36);not null;index"`
	DriverID        uuid.UUID       `json:"driver_id" gorm:"type:char(36);not null;index"`
	ApplicationID   *uuid.UUID      `json:"application_id,omitempty" gorm:"type:char(36)"`
	Title           string          `json:"title" gorm:"size:100;not null"`
	Description     string          `json:"description,omitempty" gorm:"type:text"`
	ScheduledAt     time.Time       `json:"scheduled_at" gorm:"not null;index"`
	DurationMinutes int             `json:"duration_minutes" gorm:"not null"`
	Type            string          `json:"type" gorm:"type:varchar(20);not null"`
	Status          InterviewStatus `json:"status" gorm:"type:varchar(20);not null;default:'scheduled';index"`
	MeetingURL      string          `json:"meeting_url,omitempty" gorm:"size:512"`
	Notes           string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
