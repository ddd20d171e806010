package router

import (
	"swapskill/internal/adapter/api/handler"
	"swapskill/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	reports := e.Group("/v1/reports")
	reports.Use(authMiddleware.Authenticate)
	reports.POST("", adminHandler.ReportContent)

	broadcasts := e.Group("/v1/broadcasts")
	broadcasts.Use(authMiddleware.Authenticate)
	broadcasts.GET("", adminHandler.ListBroadcasts)

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/stats", adminHandler.GetDashboardStats)
	admin.GET("/swaps", adminHandler.ListSwapRequests)

	admin.GET("/flags", adminHandler.ListFlags)
	admin.PATCH("/flags/:id", adminHandler.ResolveFlag)

	admin.POST("/broadcasts", adminHandler.Broadcast)
	admin.DELETE("/broadcasts/:id", adminHandler.DeactivateBroadcast)
}
