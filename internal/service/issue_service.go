package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voice2action/civic-service/internal/domain"
	"github.com/voice2action/civic-service/internal/events"
	"github.com/voice2action/civic-service/internal/repository"
	"github.com/voice2action/civic-service/internal/triage"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

// IssueService coordinates the report intake and lifecycle workflows.
type IssueService struct {
	issues     repository.IssueRepository
	orgs       repository.OrganizationRepository
	scorer     triage.Scorer
	dispatcher events.Dispatcher
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo  repository.IssueRepository
	OrgRepo    repository.OrganizationRepository
	Scorer     triage.Scorer
	Dispatcher events.Dispatcher
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:     deps.IssueRepo,
		orgs:       deps.OrgRepo,
		scorer:     deps.Scorer,
		dispatcher: deps.Dispatcher,
	}
}

// IssueCreateInput describes a new citizen report from any intake channel.
type IssueCreateInput struct {
	Title          string
	Description    string
	Category       *string
	LocationText   *string
	Lat            *float64
	Lng            *float64
	CitizenContact *string
	Images         []string
	WardCode       *string
	OrgCode        *string
	Channel        string
}

// IssueListQuery captures public listing parameters.
type IssueListQuery struct {
	Sort     string
	Limit    int
	Status   *string
	Category *string
	OrgCode  *string
}

// GeoPoint is one heatmap point for issues carrying both coordinates.
type GeoPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight int     `json:"weight"`
}

// CreateIssue validates, classifies, and scores a report, applies the
// orgCode-defaults-to-wardCode rule, lazily creates the organization, and
// persists the issue in the RECEIVED state.
func (s *IssueService) CreateIssue(ctx context.Context, input IssueCreateInput) (*domain.Issue, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	text := title + " " + description
	var category domain.Category
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		category = domain.Category(strings.TrimSpace(*input.Category))
	} else {
		category = triage.Classify(text)
	}

	score := s.scorer.Score(text)

	// The org link is decided once at creation and is permanent for the record.
	orgCode := input.OrgCode
	if (orgCode == nil || *orgCode == "") && input.WardCode != nil && *input.WardCode != "" {
		orgCode = input.WardCode
	}
	if orgCode != nil && *orgCode != "" {
		if err := s.orgs.EnsureExists(ctx, *orgCode); err != nil {
			return nil, apperrors.MapError(err)
		}
	} else {
		orgCode = nil
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	issue := &domain.Issue{
		TrackingID:     newTrackingID(),
		Title:          title,
		Description:    description,
		Category:       category,
		LocationText:   input.LocationText,
		Lat:            input.Lat,
		Lng:            input.Lng,
		WardCode:       input.WardCode,
		OrgCode:        orgCode,
		Images:         images,
		CitizenContact: input.CitizenContact,
		Status:         domain.StatusReceived,
		Upvotes:        0,
		SentimentScore: score,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventIssueCreated,
		IssueID:    issue.ID.Hex(),
		TrackingID: issue.TrackingID,
		Payload: events.IssueCreatedPayload{
			Category:       issue.Category,
			WardCode:       issue.WardCode,
			OrgCode:        issue.OrgCode,
			SentimentScore: issue.SentimentScore,
			Channel:        input.Channel,
			CitizenContact: issue.CitizenContact,
		},
	})
	return issue, nil
}

// GetByTrackingID is the citizen-facing lookup.
func (s *IssueService) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByTrackingID(ctx, trackingID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"trackingId": trackingID})
		}
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

// List returns issues under the requested sort mode and filters.
func (s *IssueService) List(ctx context.Context, query IssueListQuery) ([]domain.Issue, error) {
	filter := repository.IssueFilter{Limit: query.Limit}

	switch repository.SortMode(query.Sort) {
	case repository.SortTop:
		filter.Sort = repository.SortTop
	case repository.SortUrgent:
		filter.Sort = repository.SortUrgent
	default:
		filter.Sort = repository.SortRecent
	}

	if query.Status != nil && *query.Status != "" {
		status := domain.Status(*query.Status)
		filter.Status = &status
	}
	if query.Category != nil && *query.Category != "" {
		category := domain.Category(*query.Category)
		filter.Category = &category
	}
	if query.OrgCode != nil && *query.OrgCode != "" {
		filter.OrgCode = query.OrgCode
	}

	issues, err := s.issues.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// ListAll returns the full collection, newest first, for the admin view.
func (s *IssueService) ListAll(ctx context.Context) ([]domain.Issue, error) {
	issues, err := s.issues.List(ctx, repository.IssueFilter{Sort: repository.SortRecent, Limit: repository.MaxListLimit})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// Upvote applies one unconditional increment and returns the new counter.
// Repeat calls from the same source are not deduplicated.
func (s *IssueService) Upvote(ctx context.Context, issueID string) (int64, error) {
	count, err := s.issues.IncrementUpvotes(ctx, issueID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return 0, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return 0, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueUpvoted,
		IssueID: issueID,
		Payload: events.IssueUpvotedPayload{Upvotes: count},
	})
	return count, nil
}

// UpdateAdmin applies an administrative mutation: notes always when present,
// status only when it parses against the fixed enumeration. An invalid status
// value is silently dropped while the notes still apply.
func (s *IssueService) UpdateAdmin(ctx context.Context, issueID string, status *string, notes *string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.MapError(err)
	}

	var change *domain.StatusChange
	oldStatus := issue.Status
	if status != nil {
		if next, ok := domain.ParseStatus(*status); ok {
			c := issue.ApplyStatus(next, time.Now())
			change = &c
		}
	}

	if notes == nil && change == nil {
		return issue, nil
	}

	updated, err := s.issues.UpdateAdminFields(ctx, issueID, notes, change)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if change != nil {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventIssueStatusChanged,
			IssueID:    updated.ID.Hex(),
			TrackingID: updated.TrackingID,
			Payload: events.IssueStatusChangedPayload{
				OldStatus:        oldStatus,
				NewStatus:        updated.Status,
				FirstResponseSet: change.FirstResponseSet,
				ResolvedCleared:  change.ResolvedCleared,
			},
		})
	}
	return updated, nil
}

// GeoPoints projects heatmap points from issues with both coordinates set.
func (s *IssueService) GeoPoints(ctx context.Context) ([]GeoPoint, error) {
	issues, err := s.issues.ListWithCoordinates(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	points := make([]GeoPoint, 0, len(issues))
	for _, issue := range issues {
		if issue.Lat == nil || issue.Lng == nil {
			continue
		}
		points = append(points, GeoPoint{Lat: *issue.Lat, Lng: *issue.Lng, Weight: 1})
	}
	return points, nil
}

func newTrackingID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
