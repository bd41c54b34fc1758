package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"truckrecruit/internal/model"
)

// MessageRepository defines message persistence operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	ListForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	CountConversationsSince(ctx context.Context, profileID uuid.UUID, since time.Time) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository builds a GORM-backed repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListForProfile returns the inbox and sent messages of a profile, newest first.
func (r *messageRepository) ListForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Message, error) {
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", profileID, profileID).
		Order("created_at DESC").Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Update("read", true).Error
}

func (r *messageRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("recipient_id = ?", recipientID).
		Where(map[string]interface{}{"read": false}).Count(&count).Error
	return count, err
}

// CountConversationsSince counts distinct counterparts the profile exchanged messages with.
func (r *messageRepository) CountConversationsSince(ctx context.Context, profileID uuid.UUID, since time.Time) (int64, error) {
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Select("sender_id", "recipient_id").
		Where("(sender_id = ? OR recipient_id = ?) AND created_at >= ?", profileID, profileID, since).
		Find(&msgs).Error; err != nil {
		return 0, err
	}
	seen := make(map[uuid.UUID]struct{})
	for _, m := range msgs {
		other := m.SenderID
		if other == profileID {
			other = m.RecipientID
		}
		seen[other] = struct{}{}
	}
	return int64(len(seen)), nil
}
