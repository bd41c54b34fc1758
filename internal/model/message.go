package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two profiles.
type Message struct {
	ID            uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	SenderID      uuid.UUID  `json:"sender_id" gorm:"type:char(36);not null;index"`
	RecipientID   uuid.UUID  `json:"recipient_id" gorm:"type:char(36);not null;index"`
	ApplicationID *uuid.UUID `json:"application_id,omitempty" gorm:"type:char(36)"`
	Content       string     `json:"content" gorm:"type:text;not null"`
	Read          bool       `json:"read" gorm:"default:false;index"`
	CreatedAt     time.Time  `json:"created_at" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
