package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/voice2action/civic-service/internal/api/dto"
	"github.com/voice2action/civic-service/internal/domain"
	"github.com/voice2action/civic-service/internal/service"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

// IssuesHandler manages the public issue endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// Create POST /api/issues.
func (h *IssuesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.IssueCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		LocationText:   req.LocationText,
		Lat:            req.Lat,
		Lng:            req.Lng,
		CitizenContact: req.CitizenContact,
		Images:         req.Images,
		WardCode:       req.WardCode,
		OrgCode:        req.OrgCode,
		Channel:        "web",
	}
	issue, err := h.service.CreateIssue(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": issueResponse(issue)})
}

// Track GET /api/issues/track/:trackingId.
func (h *IssuesHandler) Track(c *fiber.Ctx) error {
	issue, err := h.service.GetByTrackingID(c.Context(), c.Params("trackingId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueResponse(issue)})
}

// List GET /api/issues.
func (h *IssuesHandler) List(c *fiber.Ctx) error {
	query := service.IssueListQuery{
		Sort:  c.Query("sort"),
		Limit: parseLimit(c.Query("limit")),
	}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}
	if category := c.Query("category"); category != "" {
		query.Category = &category
	}
	if orgCode := c.Query("orgCode"); orgCode != "" {
		query.OrgCode = &orgCode
	}

	issues, err := h.service.List(c.Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueResponses(issues)})
}

// Upvote POST /api/issues/:id/upvote.
func (h *IssuesHandler) Upvote(c *fiber.Ctx) error {
	count, err := h.service.Upvote(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UpvoteResponse{Upvotes: count}})
}

// GeoPoints GET /api/issues/geo.
func (h *IssuesHandler) GeoPoints(c *fiber.Ctx) error {
	points, err := h.service.GeoPoints(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": points})
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}

func issueResponse(issue *domain.Issue) dto.IssueResponse {
	return dto.IssueResponse{
		ID:              issue.ID.Hex(),
		TrackingID:      issue.TrackingID,
		Title:           issue.Title,
		Description:     issue.Description,
		Category:        issue.Category,
		LocationText:    issue.LocationText,
		Lat:             issue.Lat,
		Lng:             issue.Lng,
		WardCode:        issue.WardCode,
		OrgCode:         issue.OrgCode,
		Images:          issue.Images,
		Status:          issue.Status,
		AdminNotes:      issue.AdminNotes,
		Upvotes:         issue.Upvotes,
		SentimentScore:  issue.SentimentScore,
		FirstResponseAt: issue.FirstResponseAt,
		ResolvedAt:      issue.ResolvedAt,
		CreatedAt:       issue.CreatedAt,
		UpdatedAt:       issue.UpdatedAt,
	}
}

func issueResponses(issues []domain.Issue) []dto.IssueResponse {
	items := make([]dto.IssueResponse, 0, len(issues))
	for i := range issues {
		items = append(items, issueResponse(&issues[i]))
	}
	return items
}
