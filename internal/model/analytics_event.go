package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalyticsEvent is a tracked product event. All events are stored regardless of source.
type AnalyticsEvent struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    *uuid.UUID     `json:"user_id,omitempty" gorm:"type:char(36);index"`
	EventType string         `json:"event_type" gorm:"size:64;not null;index"`
	EventData datatypes.JSON `json:"event_data"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
