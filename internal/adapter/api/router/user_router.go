package router

import (
	"swapskill/internal/adapter/api/handler"
	"swapskill/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	userHandler := handler.GetUserHandler()
	skillHandler := handler.GetSkillHandler()
	ratingHandler := handler.GetRatingHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("", userHandler.SearchUsers)
	users.GET("/me", userHandler.GetProfile)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.GET("/:id", userHandler.GetUser)
	users.GET("/:id/skills", skillHandler.ListUserSkills)
	users.GET("/:id/ratings", ratingHandler.ListUserRatings)

	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin/users")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("", adminHandler.ListUsers)
	admin.PATCH("/:id/verify", adminHandler.VerifyUser)
	admin.POST("/:id/ban", adminHandler.BanUser)
	admin.DELETE("/:id/ban", adminHandler.UnbanUser)
}
