package router

import (
	"swapskill/internal/adapter/api/handler"
	"swapskill/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupSkillRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	skillHandler := handler.GetSkillHandler()

	e.GET("/v1/skills/categories", skillHandler.ListCategories)

	skills := e.Group("/v1/skills")
	skills.Use(authMiddleware.Authenticate)

	skills.POST("", skillHandler.CreateSkill)
	skills.DELETE("/:id", skillHandler.DeleteSkill)
}
