package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"swapskill/internal/domain/entity"
	"swapskill/internal/usecase"
	"swapskill/pkg/errors"
	"swapskill/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createConversationRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,max=20,dive,required"`
	Type           string   `json:"type" validate:"omitempty,oneof=direct swap_related group"`
	Title          string   `json:"title" validate:"max=100"`
	SwapRequestID  string   `json:"swap_request_id"`
}

type sendMessageRequest struct {
	Content     string              `json:"content" validate:"max=4000"`
	Type        string              `json:"type" validate:"omitempty,oneof=text image file swap_request swap_update"`
	Attachments []entity.Attachment `json:"attachments" validate:"max=10"`
	ReplyTo     string              `json:"reply_to"`
}

type editMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type reactionRequest struct {
	Emoji string `json:"emoji" validate:"required,max=16"`
}

func (h *ChatHandler) CreateConversation(c echo.Context) error {
	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	conv, err := h.chatUseCase.CreateConversation(c.Request().Context(), uid(c), usecase.CreateConversationInput{
		ParticipantIDs: req.ParticipantIDs,
		Type:           entity.ConversationType(req.Type),
		Title:          req.Title,
		SwapRequestID:  req.SwapRequestID,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, conv)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	conversations, err := h.chatUseCase.ListConversations(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	messages, err := h.chatUseCase.GetMessages(c.Request().Context(), uid(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	msg, err := h.chatUseCase.SendMessage(c.Request().Context(), uid(c), usecase.SendMessageInput{
		ConversationID: c.Param("id"),
		Content:        req.Content,
		Type:           entity.MessageType(req.Type),
		Attachments:    req.Attachments,
		ReplyTo:        req.ReplyTo,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, msg)
}

func (h *ChatHandler) EditMessage(c echo.Context) error {
	var req editMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	msg, err := h.chatUseCase.EditMessage(c.Request().Context(), uid(c), c.Param("messageId"), req.Content)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, msg)
}

func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	if err := h.chatUseCase.DeleteMessage(c.Request().Context(), uid(c), c.Param("messageId")); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ChatHandler) AddReaction(c echo.Context) error {
	var req reactionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	reactions, err := h.chatUseCase.AddReaction(c.Request().Context(), uid(c), c.Param("messageId"), req.Emoji)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, reactions)
}

// RemoveReaction takes the emoji as a path segment, percent-encoded.
func (h *ChatHandler) RemoveReaction(c echo.Context) error {
	emoji, err := url.PathUnescape(c.Param("emoji"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid emoji", err))
	}

	reactions, err := h.chatUseCase.RemoveReaction(c.Request().Context(), uid(c), c.Param("messageId"), emoji)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, reactions)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	if err := h.chatUseCase.MarkRead(c.Request().Context(), uid(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
