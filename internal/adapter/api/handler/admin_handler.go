package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"swapskill/internal/domain/entity"
	"swapskill/internal/usecase"
	"swapskill/pkg/response"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

type verifyUserRequest struct {
	Verified bool `json:"verified"`
}

type banUserRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type reportContentRequest struct {
	ContentType string `json:"content_type" validate:"required,oneof=user skill message swap_request"`
	ContentID   string `json:"content_id" validate:"required"`
	Reason      string `json:"reason" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type resolveFlagRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=approve reject"`
}

type broadcastRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
	Type    string `json:"type" validate:"omitempty,oneof=info warning success"`
}

func (h *AdminHandler) GetDashboardStats(c echo.Context) error {
	stats, err := h.adminUseCase.Stats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminUseCase.ListUsers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return paginate(c, users)
}

func (h *AdminHandler) VerifyUser(c echo.Context) error {
	var req verifyUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.adminUseCase.VerifyUser(c.Request().Context(), uid(c), c.Param("id"), req.Verified); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) BanUser(c echo.Context) error {
	var req banUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.adminUseCase.BanUser(c.Request().Context(), uid(c), c.Param("id"), req.Reason); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) UnbanUser(c echo.Context) error {
	if err := h.adminUseCase.UnbanUser(c.Request().Context(), uid(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListSwapRequests(c echo.Context) error {
	requests, err := h.adminUseCase.ListSwapRequests(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return paginate(c, requests)
}

// ReportContent is open to every authenticated user.
func (h *AdminHandler) ReportContent(c echo.Context) error {
	var req reportContentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	flag, err := h.adminUseCase.ReportContent(c.Request().Context(), uid(c), usecase.ReportContentInput{
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, flag)
}

func (h *AdminHandler) ListFlags(c echo.Context) error {
	flags, err := h.adminUseCase.ListFlags(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return paginate(c, flags)
}

func (h *AdminHandler) ResolveFlag(c echo.Context) error {
	var req resolveFlagRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.adminUseCase.ResolveFlag(c.Request().Context(), uid(c), c.Param("id"), usecase.FlagResolution(req.Resolution)); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) Broadcast(c echo.Context) error {
	var req broadcastRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	msg, err := h.adminUseCase.Broadcast(c.Request().Context(), uid(c), req.Content, entity.BroadcastType(req.Type))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, msg)
}

// ListBroadcasts returns active broadcasts unless ?all=true.
func (h *AdminHandler) ListBroadcasts(c echo.Context) error {
	activeOnly := c.QueryParam("all") != "true"

	messages, err := h.adminUseCase.ListBroadcasts(c.Request().Context(), activeOnly)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

func (h *AdminHandler) DeactivateBroadcast(c echo.Context) error {
	if err := h.adminUseCase.DeactivateBroadcast(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
