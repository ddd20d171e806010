package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"swapskill/internal/domain/entity"
	ws "swapskill/internal/infrastructure/websocket"
	"swapskill/internal/session"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
	"swapskill/pkg/response"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	services  session.Services
	upgrader  gorillaws.Upgrader
}

var webSocketHandler *WebSocketHandler

// NewWebSocketHandler accepts any origin when allowedOrigins is empty.
func NewWebSocketHandler(wsManager *ws.Manager, services session.Services, allowedOrigins []string) *WebSocketHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &WebSocketHandler{
		wsManager: wsManager,
		services:  services,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return len(origins) == 0 || origins[r.Header.Get("Origin")]
			},
		},
	}
}

func SetupWebSocketHandler(wsManager *ws.Manager, services session.Services, allowedOrigins []string) {
	webSocketHandler = NewWebSocketHandler(wsManager, services, allowedOrigins)
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	user, ok := c.Get("user").(*entity.User)
	if !ok || user == nil {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed for %s: %v", user.ID, err)
		return nil
	}

	// The request context ends with this handler; the session outlives it.
	client := ws.NewClient(context.Background(), user.ID, user.IsAdmin(), conn, h.services)
	h.wsManager.Register <- client

	go client.WritePump()
	client.Open()
	go client.ReadPump(h.wsManager)

	return nil
}
