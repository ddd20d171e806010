package router

import (
	"github.com/labstack/echo/v4"

	"swapskill/internal/adapter/api/handler"
	"swapskill/internal/adapter/api/middleware"
)

func SetupUploadRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	uploads := e.Group("/v1/uploads")
	uploads.Use(authMiddleware.Authenticate)

	uploads.POST("", fileHandler.UploadAttachment)
	uploads.POST("/signed-url", fileHandler.SignedUploadURL)
	uploads.DELETE("", fileHandler.DeleteAttachment)
}
