package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"swapskill/internal/domain/entity"
	"swapskill/internal/usecase"
	"swapskill/pkg/response"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	notifications, err := h.notificationUseCase.ListNotifications(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"items":  notifications,
		"unread": entity.CountUnread(notifications),
	})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.notificationUseCase.MarkRead(c.Request().Context(), uid(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.notificationUseCase.MarkAllRead(c.Request().Context(), uid(c)); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
