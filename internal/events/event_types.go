package events

import (
	"time"

	"github.com/voice2action/civic-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventIssueUpvoted       EventType = "issue_upvoted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	IssueID    string      `json:"issue_id"`
	TrackingID string      `json:"tracking_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Category       domain.Category `json:"category"`
	WardCode       *string         `json:"ward_code,omitempty"`
	OrgCode        *string         `json:"org_code,omitempty"`
	SentimentScore int             `json:"sentiment_score"`
	Channel        string          `json:"channel"`
	CitizenContact *string         `json:"citizen_contact,omitempty"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus        domain.Status `json:"old_status"`
	NewStatus        domain.Status `json:"new_status"`
	FirstResponseSet bool          `json:"first_response_set"`
	ResolvedCleared  bool          `json:"resolved_cleared"`
}

// IssueUpvotedPayload payload.
type IssueUpvotedPayload struct {
	Upvotes int64 `json:"upvotes"`
}
