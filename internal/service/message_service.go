package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

// MessageService sends and reads direct messages between profiles.
type MessageService interface {
	Send(ctx context.Context, senderID, recipientID uuid.UUID, content string, applicationID *uuid.UUID) (*model.Message, error)
	List(ctx context.Context, profileID uuid.UUID) ([]model.Message, error)
	MarkRead(ctx context.Context, profileID, id uuid.UUID) error
}

type messageService struct {
	messages  repository.MessageRepository
	profiles  repository.ProfileRepository
	validator *InputValidator
}

// NewMessageService creates a new message service.
func NewMessageService(messages repository.MessageRepository, profiles repository.ProfileRepository) MessageService {
	return &messageService{messages: messages, profiles: profiles, validator: NewInputValidator()}
}

func (s *messageService) Send(ctx context.Context, senderID, recipientID uuid.UUID, content string, applicationID *uuid.UUID) (*model.Message, error) {
	if senderID == recipientID {
		return nil, fmt.Errorf("%w: cannot message yourself", apperrors.ErrInvalidInput)
	}
	content = s.validator.Sanitize(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", apperrors.ErrInvalidInput)
	}
	if _, err := s.profiles.FindByID(ctx, recipientID); err != nil {
		return nil, notFound(err, apperrors.ErrProfileNotFound)
	}

	msg := &model.Message{
		SenderID:      senderID,
		RecipientID:   recipientID,
		ApplicationID: applicationID,
		Content:       content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// List returns the inbox and sent messages of a profile, newest first.
func (s *messageService) List(ctx context.Context, profileID uuid.UUID) ([]model.Message, error) {
	return s.messages.ListForProfile(ctx, profileID)
}

// MarkRead marks a message read. Only its recipient may do so.
func (s *messageService) MarkRead(ctx context.Context, profileID, id uuid.UUID) error {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return notFound(err, apperrors.ErrNotFound)
	}
	if msg.RecipientID != profileID {
		return apperrors.ErrForbidden
	}
	if msg.Read {
		return nil
	}
	return s.messages.MarkRead(ctx, id)
}
