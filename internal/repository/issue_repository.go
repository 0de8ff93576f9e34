package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voice2action/civic-service/internal/domain"
)

// SortMode selects the ordering for public issue listings.
type SortMode string

const (
	SortRecent SortMode = "recent"
	SortTop    SortMode = "top"
	SortUrgent SortMode = "urgent"
)

const (
	// DefaultListLimit applies when a listing omits the limit.
	DefaultListLimit = 50
	// MaxListLimit caps any public listing.
	MaxListLimit = 200
)

// IssueFilter captures public listing parameters.
type IssueFilter struct {
	Status   *domain.Status
	Category *domain.Category
	OrgCode  *string
	Sort     SortMode
	Limit    int
}

// IssueRepository encapsulates issue persistence. Mutations are expressed as
// single atomic per-document operations; there is no read-modify-write across
// the store boundary.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*domain.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	ListAll(ctx context.Context) ([]domain.Issue, error)
	ListByOrg(ctx context.Context, orgCode string) ([]domain.Issue, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]domain.Issue, error)
	ListWithCoordinates(ctx context.Context) ([]domain.Issue, error)
	IncrementUpvotes(ctx context.Context, id string) (int64, error)
	UpdateAdminFields(ctx context.Context, id string, notes *string, change *domain.StatusChange) (*domain.Issue, error)
}

type issueRepository struct {
	collection *mongo.Collection
}

// NewIssueRepository instantiates the Mongo-backed repository.
func NewIssueRepository(collection *mongo.Collection) IssueRepository {
	return &issueRepository{collection: collection}
}

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, issue)
	return err
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	return r.fetchOne(ctx, bson.M{"_id": objectID})
}

func (r *issueRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Issue, error) {
	return r.fetchOne(ctx, bson.M{"trackingId": trackingID})
}

func (r *issueRepository) fetchOne(ctx context.Context, filter bson.M) (*domain.Issue, error) {
	var issue domain.Issue
	if err := r.collection.FindOne(ctx, filter).Decode(&issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.OrgCode != nil {
		query["orgCode"] = *filter.OrgCode
	}

	var sortBy bson.D
	switch filter.Sort {
	case SortUrgent:
		// Most negative sentiment first, newest first among equal scores.
		sortBy = bson.D{{Key: "sentimentScore", Value: 1}, {Key: "createdAt", Value: -1}}
	case SortTop:
		sortBy = bson.D{{Key: "upvotes", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		sortBy = bson.D{{Key: "createdAt", Value: -1}}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	opts := options.Find().SetSort(sortBy).SetLimit(int64(limit))
	return r.fetchMany(ctx, query, opts)
}

func (r *issueRepository) ListAll(ctx context.Context) ([]domain.Issue, error) {
	return r.fetchMany(ctx, bson.M{}, options.Find())
}

func (r *issueRepository) ListByOrg(ctx context.Context, orgCode string) ([]domain.Issue, error) {
	return r.fetchMany(ctx, bson.M{"orgCode": orgCode}, options.Find())
}

func (r *issueRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]domain.Issue, error) {
	return r.fetchMany(ctx, bson.M{"createdAt": bson.M{"$gte": since}}, options.Find())
}

func (r *issueRepository) ListWithCoordinates(ctx context.Context) ([]domain.Issue, error) {
	query := bson.M{
		"lat": bson.M{"$exists": true, "$ne": nil},
		"lng": bson.M{"$exists": true, "$ne": nil},
	}
	return r.fetchMany(ctx, query, options.Find())
}

func (r *issueRepository) fetchMany(ctx context.Context, query bson.M, opts *options.FindOptions) ([]domain.Issue, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []domain.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// IncrementUpvotes applies an unconditional atomic $inc and returns the new
// counter value.
func (r *issueRepository) IncrementUpvotes(ctx context.Context, id string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, mongo.ErrNoDocuments
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated struct {
		Upvotes int64 `bson:"upvotes"`
	}
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"upvotes": 1}},
		opts,
	).Decode(&updated)
	if err != nil {
		return 0, err
	}
	return updated.Upvotes, nil
}

// UpdateAdminFields persists an admin mutation (notes and/or a lifecycle
// transition) as one atomic document update and returns the updated issue.
func (r *issueRepository) UpdateAdminFields(ctx context.Context, id string, notes *string, change *domain.StatusChange) (*domain.Issue, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	set := bson.M{"updatedAt": time.Now()}
	unset := bson.M{}
	if notes != nil {
		set["adminNotes"] = *notes
	}
	if change != nil {
		set["status"] = change.Status
		if change.FirstResponseSet {
			set["firstResponseAt"] = change.At
		}
		if change.ResolvedSet {
			set["resolvedAt"] = change.At
		}
		if change.ResolvedCleared {
			unset["resolvedAt"] = ""
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var issue domain.Issue
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&issue); err != nil {
		return nil, err
	}
	return &issue, nil
}
