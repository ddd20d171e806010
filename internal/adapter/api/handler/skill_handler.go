package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"swapskill/internal/domain/entity"
	"swapskill/internal/usecase"
	"swapskill/pkg/response"
)

type SkillHandler struct {
	skillUseCase *usecase.SkillUseCase
}

func NewSkillHandler(skillUseCase *usecase.SkillUseCase) *SkillHandler {
	return &SkillHandler{
		skillUseCase: skillUseCase,
	}
}

type createSkillRequest struct {
	Name        string   `json:"name" validate:"required,max=80"`
	Description string   `json:"description" validate:"max=1000"`
	CategoryID  string   `json:"category_id" validate:"required"`
	Level       string   `json:"level" validate:"required,oneof=beginner intermediate advanced expert"`
	Tags        []string `json:"tags" validate:"max=10,dive,max=30"`
	Type        string   `json:"type" validate:"required,oneof=offered wanted"`
}

func (h *SkillHandler) ListCategories(c echo.Context) error {
	return response.Success(c, h.skillUseCase.Categories())
}

func (h *SkillHandler) CreateSkill(c echo.Context) error {
	var req createSkillRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	skill, err := h.skillUseCase.AddSkill(c.Request().Context(), uid(c), usecase.AddSkillInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Level:       entity.SkillLevel(req.Level),
		Tags:        req.Tags,
		Type:        entity.SkillType(req.Type),
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, skill)
}

func (h *SkillHandler) DeleteSkill(c echo.Context) error {
	if err := h.skillUseCase.DeleteSkill(c.Request().Context(), uid(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SkillHandler) ListUserSkills(c echo.Context) error {
	userID := c.Param("id")
	if userID == "me" {
		userID = uid(c)
	}

	offered, wanted, err := h.skillUseCase.ListUserSkills(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"offered": offered,
		"wanted":  wanted,
	})
}
