package handler

import (
	"github.com/labstack/echo/v4"

	"swapskill/internal/domain/entity"
	"swapskill/internal/usecase"
	"swapskill/pkg/response"
)

type SwapHandler struct {
	swapUseCase *usecase.SwapUseCase
}

func NewSwapHandler(swapUseCase *usecase.SwapUseCase) *SwapHandler {
	return &SwapHandler{
		swapUseCase: swapUseCase,
	}
}

type createSwapRequestRequest struct {
	TargetID         string `json:"target_id" validate:"required"`
	OfferedSkillID   string `json:"offered_skill_id" validate:"required"`
	RequestedSkillID string `json:"requested_skill_id" validate:"required"`
	Message          string `json:"message" validate:"max=1000"`
	Priority         string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

type updateSwapStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=pending approved rejected accepted declined completed cancelled"`
	AdminNote string `json:"admin_note" validate:"max=1000"`
}

func (h *SwapHandler) CreateSwapRequest(c echo.Context) error {
	var req createSwapRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	swap, err := h.swapUseCase.CreateSwapRequest(c.Request().Context(), uid(c), usecase.CreateSwapRequestInput{
		TargetID:         req.TargetID,
		OfferedSkillID:   req.OfferedSkillID,
		RequestedSkillID: req.RequestedSkillID,
		Message:          req.Message,
		Priority:         entity.SwapPriority(req.Priority),
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, swap)
}

// ListSwapRequests takes ?direction=incoming|outgoing|all, default all.
func (h *SwapHandler) ListSwapRequests(c echo.Context) error {
	direction := usecase.SwapDirection(c.QueryParam("direction"))
	if direction == "" {
		direction = usecase.SwapAll
	}

	requests, err := h.swapUseCase.GetSwapRequests(c.Request().Context(), uid(c), direction)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, requests)
}

func (h *SwapHandler) GetSwapRequest(c echo.Context) error {
	swap, err := h.swapUseCase.GetSwapRequest(c.Request().Context(), uid(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, swap)
}

func (h *SwapHandler) UpdateStatus(c echo.Context) error {
	var req updateSwapStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	swap, err := h.swapUseCase.UpdateStatus(c.Request().Context(), uid(c), c.Param("id"), entity.SwapStatus(req.Status), req.AdminNote)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, swap)
}
