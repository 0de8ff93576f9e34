package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrgType classifies local government institutions.
type OrgType string

const (
	OrgTypeUnionParishad OrgType = "UP"
	OrgTypePourashava    OrgType = "Pourashava"
	OrgTypeCityCorp      OrgType = "CityCorp"
	OrgTypeOther         OrgType = "Other"
)

// Organization is the administrative unit issues are scoped to. Records are
// created lazily the first time an issue references an unseen code and are
// never overwritten afterwards.
type Organization struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"code"`
	Name      string             `bson:"name" json:"name"`
	Type      OrgType            `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
