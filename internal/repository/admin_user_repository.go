package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/voice2action/civic-service/internal/domain"
)

// AdminUserRepository encapsulates administrator account persistence.
type AdminUserRepository interface {
	Create(ctx context.Context, user *domain.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	GetByID(ctx context.Context, id string) (*domain.AdminUser, error)
}

type adminUserRepository struct {
	collection *mongo.Collection
}

// NewAdminUserRepository instantiates the Mongo-backed repository.
func NewAdminUserRepository(collection *mongo.Collection) AdminUserRepository {
	return &adminUserRepository{collection: collection}
}

func (r *adminUserRepository) Create(ctx context.Context, user *domain.AdminUser) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *adminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var user domain.AdminUser
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepository) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var user domain.AdminUser
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
