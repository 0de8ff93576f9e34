package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voice2action/civic-service/internal/api/dto"
	"github.com/voice2action/civic-service/internal/service"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

// AdminHandler manages authenticated issue administration.
type AdminHandler struct {
	service *service.IssueService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(issueService *service.IssueService) *AdminHandler {
	return &AdminHandler{service: issueService}
}

// ListIssues GET /api/admin/issues.
func (h *AdminHandler) ListIssues(c *fiber.Ctx) error {
	issues, err := h.service.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueResponses(issues)})
}

// UpdateIssue PATCH /api/admin/issues/:id.
func (h *AdminHandler) UpdateIssue(c *fiber.Ctx) error {
	var req dto.AdminIssueUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.UpdateAdmin(c.Context(), c.Params("id"), req.Status, req.AdminNotes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueResponse(issue)})
}
