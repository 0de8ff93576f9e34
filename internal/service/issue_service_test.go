package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/voice2action/civic-service/internal/domain"
	"github.com/voice2action/civic-service/internal/events"
	"github.com/voice2action/civic-service/internal/repository"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

type memIssueRepo struct {
	issues []*domain.Issue
}

func (m *memIssueRepo) Create(_ context.Context, issue *domain.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	m.issues = append(m.issues, issue)
	return nil
}

func (m *memIssueRepo) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	for _, issue := range m.issues {
		if issue.ID.Hex() == id {
			return issue, nil
		}
	}
	return nil, apperrors.NewNotFound("issue", nil)
}

func (m *memIssueRepo) GetByTrackingID(_ context.Context, trackingID string) (*domain.Issue, error) {
	for _, issue := range m.issues {
		if issue.TrackingID == trackingID {
			return issue, nil
		}
	}
	return nil, apperrors.NewNotFound("issue", nil)
}

func (m *memIssueRepo) List(_ context.Context, _ repository.IssueFilter) ([]domain.Issue, error) {
	return m.all(), nil
}

func (m *memIssueRepo) ListAll(_ context.Context) ([]domain.Issue, error) {
	return m.all(), nil
}

func (m *memIssueRepo) ListByOrg(_ context.Context, orgCode string) ([]domain.Issue, error) {
	var out []domain.Issue
	for _, issue := range m.issues {
		if issue.OrgCode != nil && *issue.OrgCode == orgCode {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (m *memIssueRepo) ListCreatedSince(_ context.Context, since time.Time) ([]domain.Issue, error) {
	var out []domain.Issue
	for _, issue := range m.issues {
		if issue.CreatedAt.After(since) {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (m *memIssueRepo) ListWithCoordinates(_ context.Context) ([]domain.Issue, error) {
	var out []domain.Issue
	for _, issue := range m.issues {
		if issue.Lat != nil && issue.Lng != nil {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (m *memIssueRepo) IncrementUpvotes(_ context.Context, id string) (int64, error) {
	for _, issue := range m.issues {
		if issue.ID.Hex() == id {
			issue.Upvotes++
			return issue.Upvotes, nil
		}
	}
	return 0, apperrors.NewNotFound("issue", nil)
}

func (m *memIssueRepo) UpdateAdminFields(_ context.Context, id string, notes *string, change *domain.StatusChange) (*domain.Issue, error) {
	for _, issue := range m.issues {
		if issue.ID.Hex() != id {
			continue
		}
		if notes != nil {
			issue.AdminNotes = notes
		}
		if change != nil {
			issue.Status = change.Status
			if change.FirstResponseSet {
				at := change.At
				issue.FirstResponseAt = &at
			}
			if change.ResolvedSet {
				at := change.At
				issue.ResolvedAt = &at
			}
			if change.ResolvedCleared {
				issue.ResolvedAt = nil
			}
		}
		issue.UpdatedAt = time.Now()
		return issue, nil
	}
	return nil, apperrors.NewNotFound("issue", nil)
}

func (m *memIssueRepo) all() []domain.Issue {
	out := make([]domain.Issue, 0, len(m.issues))
	for _, issue := range m.issues {
		out = append(out, *issue)
	}
	return out
}

type memOrgRepo struct {
	ensured []string
}

func (m *memOrgRepo) EnsureExists(_ context.Context, code string) error {
	m.ensured = append(m.ensured, code)
	return nil
}

func (m *memOrgRepo) GetByCode(_ context.Context, code string) (*domain.Organization, error) {
	for _, ensured := range m.ensured {
		if ensured == code {
			return &domain.Organization{Code: code, Name: code, Type: domain.OrgTypeOther}, nil
		}
	}
	return nil, apperrors.NewNotFound("organization", nil)
}

func (m *memOrgRepo) List(_ context.Context) ([]domain.Organization, error) {
	orgs := make([]domain.Organization, 0, len(m.ensured))
	for _, code := range m.ensured {
		orgs = append(orgs, domain.Organization{Code: code, Name: code})
	}
	return orgs, nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

type fixedScorer struct{ score int }

func (s fixedScorer) Score(string) int { return s.score }

func newTestIssueService(score int) (*IssueService, *memIssueRepo, *memOrgRepo, *recordingDispatcher) {
	repo := &memIssueRepo{}
	orgs := &memOrgRepo{}
	dispatcher := &recordingDispatcher{}
	svc := NewIssueService(IssueDependencies{
		IssueRepo:  repo,
		OrgRepo:    orgs,
		Scorer:     fixedScorer{score: score},
		Dispatcher: dispatcher,
	})
	return svc, repo, orgs, dispatcher
}

func strPtr(s string) *string { return &s }

func TestCreateIssueRequiresTitleAndDescription(t *testing.T) {
	svc, _, _, _ := newTestIssueService(0)

	_, err := svc.CreateIssue(context.Background(), IssueCreateInput{Title: "  ", Description: "broken drain"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.CreateIssue(context.Background(), IssueCreateInput{Title: "drain", Description: ""})
	require.Error(t, err)
}

func TestCreateIssueClassifiesWhenCategoryAbsent(t *testing.T) {
	svc, _, _, _ := newTestIssueService(-2)

	issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{
		Title:       "Huge pothole",
		Description: "pothole on the road near the market",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryRoads, issue.Category)
	assert.Equal(t, -2, issue.SentimentScore)
	assert.Equal(t, domain.StatusReceived, issue.Status)
}

func TestCreateIssueKeepsExplicitCategory(t *testing.T) {
	svc, _, _, _ := newTestIssueService(0)

	issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{
		Title:       "pothole",
		Description: "pothole everywhere",
		Category:    strPtr("Health & Sanitation"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Category("Health & Sanitation"), issue.Category)
}

func TestCreateIssueTrackingIDFormat(t *testing.T) {
	svc, _, _, _ := newTestIssueService(0)

	issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{Title: "a", Description: "b"})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), issue.TrackingID)
}

func TestCreateIssueOrgDefaultsToWard(t *testing.T) {
	svc, _, orgs, _ := newTestIssueService(0)

	issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{
		Title:       "streetlight out",
		Description: "dark at night",
		WardCode:    strPtr("W-07"),
	})
	require.NoError(t, err)
	require.NotNil(t, issue.OrgCode)
	assert.Equal(t, "W-07", *issue.OrgCode)
	assert.Equal(t, []string{"W-07"}, orgs.ensured)
}

func TestCreateIssueExplicitOrgWins(t *testing.T) {
	svc, _, orgs, _ := newTestIssueService(0)

	issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{
		Title:       "streetlight out",
		Description: "dark at night",
		WardCode:    strPtr("W-07"),
		OrgCode:     strPtr("DNCC"),
	})
	require.NoError(t, err)
	require.NotNil(t, issue.OrgCode)
	assert.Equal(t, "DNCC", *issue.OrgCode)
	assert.Equal(t, []string{"DNCC"}, orgs.ensured)
}

func TestCreateIssueWithoutWardOrOrg(t *testing.T) {
	svc, _, orgs, _ := newTestIssueService(0)

	issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{Title: "a", Description: "b"})
	require.NoError(t, err)
	assert.Nil(t, issue.OrgCode)
	assert.Empty(t, orgs.ensured)
}

func TestCreateIssuePublishesEvent(t *testing.T) {
	svc, _, _, dispatcher := newTestIssueService(3)

	_, err := svc.CreateIssue(context.Background(), IssueCreateInput{
		Title:          "clean park",
		Description:    "thank you, great work",
		CitizenContact: strPtr("+8801700000000"),
		Channel:        "sms",
	})
	require.NoError(t, err)

	require.Len(t, dispatcher.published, 1)
	event := dispatcher.published[0]
	assert.Equal(t, events.EventIssueCreated, event.Type)
	payload, ok := event.Payload.(events.IssueCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, "sms", payload.Channel)
	assert.Equal(t, 3, payload.SentimentScore)
	require.NotNil(t, payload.CitizenContact)
	assert.Equal(t, "+8801700000000", *payload.CitizenContact)
}

func TestUpvoteIncrementsAndPublishes(t *testing.T) {
	svc, repo, _, dispatcher := newTestIssueService(0)
	issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{Title: "a", Description: "b"})
	require.NoError(t, err)
	dispatcher.published = nil

	count, err := svc.Upvote(context.Background(), issue.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(1), repo.issues[0].Upvotes)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventIssueUpvoted, dispatcher.published[0].Type)
}

func TestUpvoteUnknownIssue(t *testing.T) {
	svc, _, _, _ := newTestIssueService(0)

	_, err := svc.Upvote(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateAdminInvalidStatusDroppedNotesApplied(t *testing.T) {
	svc, _, _, dispatcher := newTestIssueService(0)
	issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{Title: "a", Description: "b"})
	require.NoError(t, err)
	dispatcher.published = nil

	updated, err := svc.UpdateAdmin(context.Background(), issue.ID.Hex(), strPtr("DONE"), strPtr("queued for crew"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, updated.Status)
	require.NotNil(t, updated.AdminNotes)
	assert.Equal(t, "queued for crew", *updated.AdminNotes)
	assert.Nil(t, updated.FirstResponseAt)
	assert.Empty(t, dispatcher.published)
}

func TestUpdateAdminStatusTransition(t *testing.T) {
	svc, _, _, dispatcher := newTestIssueService(0)
	issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{Title: "a", Description: "b"})
	require.NoError(t, err)
	dispatcher.published = nil

	updated, err := svc.UpdateAdmin(context.Background(), issue.ID.Hex(), strPtr("RESOLVED"), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, updated.Status)
	assert.NotNil(t, updated.FirstResponseAt)
	assert.NotNil(t, updated.ResolvedAt)

	require.Len(t, dispatcher.published, 1)
	payload, ok := dispatcher.published[0].Payload.(events.IssueStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.StatusReceived, payload.OldStatus)
	assert.Equal(t, domain.StatusResolved, payload.NewStatus)
	assert.True(t, payload.FirstResponseSet)
}

func TestUpdateAdminNoOp(t *testing.T) {
	svc, _, _, dispatcher := newTestIssueService(0)
	issue, err := svc.CreateIssue(context.Background(), IssueCreateInput{Title: "a", Description: "b"})
	require.NoError(t, err)
	dispatcher.published = nil

	updated, err := svc.UpdateAdmin(context.Background(), issue.ID.Hex(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, issue.ID, updated.ID)
	assert.Empty(t, dispatcher.published)
}

func TestGeoPointsOnlyWithBothCoordinates(t *testing.T) {
	svc, _, _, _ := newTestIssueService(0)
	lat, lng := 23.81, 90.41

	_, err := svc.CreateIssue(context.Background(), IssueCreateInput{Title: "a", Description: "b", Lat: &lat, Lng: &lng})
	require.NoError(t, err)
	_, err = svc.CreateIssue(context.Background(), IssueCreateInput{Title: "c", Description: "d", Lat: &lat})
	require.NoError(t, err)

	points, err := svc.GeoPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, GeoPoint{Lat: lat, Lng: lng, Weight: 1}, points[0])
}
