package handler

import (
	"github.com/labstack/echo/v4"

	"swapskill/internal/usecase"
	"swapskill/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,min=2,max=60"`
	Bio         string `json:"bio" validate:"omitempty,max=500"`
	Location    string `json:"location" validate:"omitempty,max=100"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url"`
}

type searchUsersRequest struct {
	Name         string `query:"name" validate:"max=100"`
	Category     string `query:"category"`
	Location     string `query:"location" validate:"max=100"`
	Query        string `query:"q" validate:"max=100"`
	VerifiedOnly bool   `query:"verified_only"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.userUseCase.GetProfile(c.Request().Context(), uid(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	profile, err := h.userUseCase.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid(c), usecase.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Location:    req.Location,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) SearchUsers(c echo.Context) error {
	var req searchUsersRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	users, err := h.userUseCase.SearchUsers(c.Request().Context(), usecase.SearchFilter{
		NamePrefix:   req.Name,
		Category:     req.Category,
		Location:     req.Location,
		Text:         req.Query,
		VerifiedOnly: req.VerifiedOnly,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}
