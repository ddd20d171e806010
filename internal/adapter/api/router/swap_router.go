package router

import (
	"swapskill/internal/adapter/api/handler"
	"swapskill/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupSwapRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	swapHandler := handler.GetSwapHandler()
	ratingHandler := handler.GetRatingHandler()

	swaps := e.Group("/v1/swaps")
	swaps.Use(authMiddleware.Authenticate)

	swaps.POST("", swapHandler.CreateSwapRequest)
	swaps.GET("", swapHandler.ListSwapRequests)
	swaps.GET("/:id", swapHandler.GetSwapRequest)
	swaps.PATCH("/:id/status", swapHandler.UpdateStatus)
	swaps.POST("/:id/rating", ratingHandler.RateSwap)
}
