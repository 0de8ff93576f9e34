package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voice2action/civic-service/internal/repository"
	"github.com/voice2action/civic-service/internal/service"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

// OrgsHandler serves the organization directory and per-org scorecards.
type OrgsHandler struct {
	orgs    repository.OrganizationRepository
	metrics *service.MetricsService
}

// NewOrgsHandler constructs handler.
func NewOrgsHandler(orgs repository.OrganizationRepository, metrics *service.MetricsService) *OrgsHandler {
	return &OrgsHandler{orgs: orgs, metrics: metrics}
}

// List GET /api/orgs.
func (h *OrgsHandler) List(c *fiber.Ctx) error {
	orgs, err := h.orgs.List(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": orgs})
}

// Metrics GET /api/orgs/:code/metrics.
func (h *OrgsHandler) Metrics(c *fiber.Ctx) error {
	summary, err := h.metrics.OrgSummary(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
