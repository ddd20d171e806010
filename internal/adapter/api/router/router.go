package router

import (
	"swapskill/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupUserRouter(e, authMiddleware, adminMiddleware)
	SetupSkillRouter(e, authMiddleware)
	SetupSwapRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupUploadRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
