package handler

import (
	"github.com/labstack/echo/v4"

	"swapskill/internal/usecase"
	"swapskill/pkg/response"
)

type RatingHandler struct {
	ratingUseCase *usecase.RatingUseCase
}

func NewRatingHandler(ratingUseCase *usecase.RatingUseCase) *RatingHandler {
	return &RatingHandler{
		ratingUseCase: ratingUseCase,
	}
}

type rateSwapRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func (h *RatingHandler) RateSwap(c echo.Context) error {
	var req rateSwapRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	summary, err := h.ratingUseCase.RateSwap(c.Request().Context(), uid(c), usecase.RateSwapInput{
		SwapRequestID: c.Param("id"),
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, summary)
}

func (h *RatingHandler) ListUserRatings(c echo.Context) error {
	ratings, err := h.ratingUseCase.ListRatings(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return paginate(c, ratings)
}
