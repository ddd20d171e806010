package router

import (
	"github.com/labstack/echo/v4"

	"swapskill/internal/adapter/api/handler"
	"swapskill/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)

	conversations.POST("", chatHandler.CreateConversation)
	conversations.GET("", chatHandler.ListConversations)
	conversations.PUT("/:id/read", chatHandler.MarkRead)
	conversations.GET("/:id/messages", chatHandler.GetMessages)
	conversations.POST("/:id/messages", chatHandler.SendMessage)

	messages := e.Group("/v1/messages")
	messages.Use(authMiddleware.Authenticate)

	messages.PATCH("/:messageId", chatHandler.EditMessage)
	messages.DELETE("/:messageId", chatHandler.DeleteMessage)
	messages.POST("/:messageId/reactions", chatHandler.AddReaction)
	messages.DELETE("/:messageId/reactions/:emoji", chatHandler.RemoveReaction)
}
