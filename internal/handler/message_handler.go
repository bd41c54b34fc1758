package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"truckrecruit/internal/service"
)

// MessageHandler handles direct messages.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest represents a new message.
type SendMessageRequest struct {
	RecipientID   uuid.UUID  `json:"recipient_id" validate:"required"`
	ApplicationID *uuid.UUID `json:"application_id"`
	Content       string     `json:"content" validate:"required,min=1,max=2000"`
}

// Send godoc
// @Summary Send a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	msg, err := h.messageService.Send(c.Request().Context(), v.ID, req.RecipientID, req.Content, req.ApplicationID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// List godoc
// @Summary List inbox and sent messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Message
// @Failure 401 {object} errors.ErrorResponse
// @Router /messages [get]
func (h *MessageHandler) List(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	msgs, err := h.messageService.List(c.Request().Context(), v.ID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// MarkRead godoc
// @Summary Mark a message read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.messageService.MarkRead(c.Request().Context(), v.ID, id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "message marked as read"})
}
