package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voice2action/civic-service/internal/api/dto"
	"github.com/voice2action/civic-service/internal/budget"
	"github.com/voice2action/civic-service/internal/service"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

// BudgetHandler serves the participatory budget simulator endpoints.
type BudgetHandler struct {
	service *service.BudgetService
}

// NewBudgetHandler constructs handler.
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{service: budgetService}
}

// Needs GET /api/budget/needs.
func (h *BudgetHandler) Needs(c *fiber.Ctx) error {
	result, err := h.service.Needs(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// EditPlan POST /api/budget/plan.
func (h *BudgetHandler) EditPlan(c *fiber.Ctx) error {
	var req dto.BudgetEditRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Category == "" {
		return apperrors.NewValidationError("category required", nil)
	}
	result, err := h.service.EditPlan(c.Context(), req.Plan, req.Category, req.Value, defaultTotal(req.Total))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// AutoAllocate POST /api/budget/auto.
func (h *BudgetHandler) AutoAllocate(c *fiber.Ctx) error {
	var req dto.BudgetAutoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.AutoAllocate(c.Context(), defaultTotal(req.Total))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Score POST /api/budget/score.
func (h *BudgetHandler) Score(c *fiber.Ctx) error {
	var req dto.BudgetScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.Score(c.Context(), req.Plan, defaultTotal(req.Total))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

func defaultTotal(total int) int {
	if total == 0 {
		return budget.DefaultTotal
	}
	return total
}
