package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/voice2action/civic-service/internal/service"
)

// MetricsHandler serves the public analytics endpoints.
type MetricsHandler struct {
	service *service.MetricsService
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metricsService *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{service: metricsService}
}

// Summary GET /api/metrics.
func (h *MetricsHandler) Summary(c *fiber.Ctx) error {
	var orgCode *string
	if org := c.Query("org"); org != "" {
		orgCode = &org
	}
	summary, err := h.service.Summary(c.Context(), orgCode)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Series GET /api/analytics/series.
func (h *MetricsHandler) Series(c *fiber.Ctx) error {
	days := 0
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			days = parsed
		}
	}
	result, err := h.service.Series(c.Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// WardStats GET /api/wards/stats.
func (h *MetricsHandler) WardStats(c *fiber.Ctx) error {
	stats, err := h.service.WardStats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
