package dto

import (
	"time"

	"github.com/voice2action/civic-service/internal/domain"
)

// CreateIssueRequest payload for citizen reports from any intake channel.
type CreateIssueRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       *string  `json:"category"`
	LocationText   *string  `json:"locationText"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
	CitizenContact *string  `json:"citizenContact"`
	Images         []string `json:"images"`
	WardCode       *string  `json:"wardCode"`
	OrgCode        *string  `json:"orgCode"`
}

// AdminIssueUpdateRequest payload for the admin PATCH endpoint.
type AdminIssueUpdateRequest struct {
	Status     *string `json:"status"`
	AdminNotes *string `json:"adminNotes"`
}

// IssueResponse is the public issue representation.
type IssueResponse struct {
	ID              string          `json:"id"`
	TrackingID      string          `json:"trackingId"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        domain.Category `json:"category"`
	LocationText    *string         `json:"locationText,omitempty"`
	Lat             *float64        `json:"lat,omitempty"`
	Lng             *float64        `json:"lng,omitempty"`
	WardCode        *string         `json:"wardCode,omitempty"`
	OrgCode         *string         `json:"orgCode,omitempty"`
	Images          []string        `json:"images"`
	Status          domain.Status   `json:"status"`
	AdminNotes      *string         `json:"adminNotes,omitempty"`
	Upvotes         int64           `json:"upvotes"`
	SentimentScore  int             `json:"sentimentScore"`
	FirstResponseAt *time.Time      `json:"firstResponseAt,omitempty"`
	ResolvedAt      *time.Time      `json:"resolvedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// UpvoteResponse carries the incremented counter.
type UpvoteResponse struct {
	Upvotes int64 `json:"upvotes"`
}
