package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voice2action/civic-service/internal/domain"
)

// OrganizationRepository encapsulates organization persistence.
type OrganizationRepository interface {
	EnsureExists(ctx context.Context, code string) error
	GetByCode(ctx context.Context, code string) (*domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
}

type organizationRepository struct {
	collection *mongo.Collection
}

// NewOrganizationRepository instantiates the Mongo-backed repository.
func NewOrganizationRepository(collection *mongo.Collection) OrganizationRepository {
	return &organizationRepository{collection: collection}
}

// EnsureExists lazily creates the organization record for a code. Existing
// records are never overwritten; $setOnInsert only fires on first sight.
func (r *organizationRepository) EnsureExists(ctx context.Context, code string) error {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":      code,
			"type":      domain.OrgTypeOther,
			"createdAt": now,
			"updatedAt": now,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"code": code}, update, options.Update().SetUpsert(true))
	return err
}

func (r *organizationRepository) GetByCode(ctx context.Context, code string) (*domain.Organization, error) {
	var org domain.Organization
	if err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) List(ctx context.Context) ([]domain.Organization, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orgs []domain.Organization
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}
