package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobPosting is an opening published by a recruiter.
type JobPosting struct {
	ID           uuid.UUID                   `json:"id" gorm:"type:char(36);primaryKey"`
	RecruiterID  uuid.UUID                   `json:"recruiter_id" gorm:"type:char(36);not null;index"`
	Title        string                      `json:"title" gorm:"size:100;not null"`
	Description  string                      `json:"description" gorm:"type:text;not null"`
	Location     string                      `json:"location" gorm:"size:100;not null"`
	JobType      string                      `json:"job_type" gorm:"size:50;not null"`
	SalaryMin    *int                        `json:"salary_min,omitempty"`
	SalaryMax    *int                        `json:"salary_max,omitempty"`
	Requirements datatypes.JSONSlice[string] `json:"requirements"`
	Benefits     datatypes.JSONSlice[string] `json:"benefits"`
	Active       bool                        `json:"active" gorm:"default:true;index"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (j *JobPosting) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
