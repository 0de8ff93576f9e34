package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category enumerates the fixed reporting categories.
type Category string

const (
	CategoryRoads     Category = "Roads"
	CategoryWaste     Category = "Waste"
	CategoryFlooding  Category = "Flooding"
	CategoryHealth    Category = "Health"
	CategoryEducation Category = "Education"
	CategoryGeneral   Category = "General"
)

// Status enumerates issue lifecycle states.
type Status string

const (
	StatusReceived    Status = "RECEIVED"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusInProcess   Status = "IN_PROCESS"
	StatusResolved    Status = "RESOLVED"
)

// ParseStatus validates a raw status value against the fixed enumeration.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusReceived, StatusUnderReview, StatusInProcess, StatusResolved:
		return Status(raw), true
	}
	return "", false
}

// Issue is the aggregate for citizen reports. Optional fields are pointers so
// "unset" is distinguishable from a present-but-zero value.
type Issue struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrackingID      string             `bson:"trackingId" json:"trackingId"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Category        Category           `bson:"category" json:"category"`
	LocationText    *string            `bson:"locationText,omitempty" json:"locationText,omitempty"`
	Lat             *float64           `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng             *float64           `bson:"lng,omitempty" json:"lng,omitempty"`
	WardCode        *string            `bson:"wardCode,omitempty" json:"wardCode,omitempty"`
	OrgCode         *string            `bson:"orgCode,omitempty" json:"orgCode,omitempty"`
	Images          []string           `bson:"images" json:"images"`
	CitizenContact  *string            `bson:"citizenContact,omitempty" json:"citizenContact,omitempty"`
	Status          Status             `bson:"status" json:"status"`
	AdminNotes      *string            `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	Upvotes         int64              `bson:"upvotes" json:"upvotes"`
	SentimentScore  int                `bson:"sentimentScore" json:"sentimentScore"`
	FirstResponseAt *time.Time         `bson:"firstResponseAt,omitempty" json:"firstResponseAt,omitempty"`
	ResolvedAt      *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// StatusChange describes the effect of a lifecycle transition so the storage
// layer can persist it as a single atomic update.
type StatusChange struct {
	Status           Status
	FirstResponseSet bool
	ResolvedSet      bool
	ResolvedCleared  bool
	At               time.Time
}

// ApplyStatus runs the lifecycle transition from the issue's current status to
// next. Transitions are not restricted to the forward direction; any valid
// state is reachable from any other. Rules:
//
//   - the first transition away from RECEIVED stamps FirstResponseAt, once;
//   - entering RESOLVED stamps ResolvedAt;
//   - leaving RESOLVED clears ResolvedAt (FirstResponseAt is kept).
//
// The receiver is mutated and the resulting change returned.
func (i *Issue) ApplyStatus(next Status, now time.Time) StatusChange {
	change := StatusChange{Status: next, At: now}
	prev := i.Status

	if next != StatusReceived && i.FirstResponseAt == nil {
		t := now
		i.FirstResponseAt = &t
		change.FirstResponseSet = true
	}
	if next == StatusResolved {
		t := now
		i.ResolvedAt = &t
		change.ResolvedSet = true
	}
	if prev == StatusResolved && next != StatusResolved {
		i.ResolvedAt = nil
		change.ResolvedCleared = true
	}

	i.Status = next
	i.UpdatedAt = now
	return change
}
