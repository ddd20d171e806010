package router

import (
	"github.com/labstack/echo/v4"

	"swapskill/internal/adapter/api/handler"
	"swapskill/internal/adapter/api/middleware"
)

// SetupWebSocketRouter mounts /v1/ws. Browsers cannot set headers on the
// upgrade request, so Authenticate also accepts ?token=.
func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	wsHandler := handler.GetWebSocketHandler()
	e.GET("/v1/ws", wsHandler.HandleWebSocket, authMiddleware.Authenticate)
}
