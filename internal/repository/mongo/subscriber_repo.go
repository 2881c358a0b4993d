package mongo

import (
	"context"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoSubscriberRepository implements repository.SubscriberRepository on
// top of the generic record repository.
type mongoSubscriberRepository struct {
	records    repository.RecordRepository[domain.Subscriber]
	collection *mongo.Collection
}

// NewMongoSubscriberRepository creates a new Subscriber repository backed by MongoDB.
func NewMongoSubscriberRepository(db *mongo.Database) repository.SubscriberRepository {
	return &mongoSubscriberRepository{
		records:    NewRecordRepository[domain.Subscriber](db, SubscribersCollection, repository.OldestFirst),
		collection: db.Collection(SubscribersCollection),
	}
}

func (r *mongoSubscriberRepository) Create(ctx context.Context, subscriber *domain.Subscriber) (primitive.ObjectID, error) {
	if subscriber.SubscribedAt.IsZero() {
		subscriber.SubscribedAt = time.Now().UTC()
	}
	return r.records.Create(ctx, subscriber)
}

func (r *mongoSubscriberRepository) List(ctx context.Context) ([]domain.Subscriber, error) {
	return r.records.List(ctx)
}

// CountDistinctEmails counts subscribers by email, so repeat subscriptions
// count once.
func (r *mongoSubscriberRepository) CountDistinctEmails(ctx context.Context) (int64, error) {
	return countDistinct(ctx, r.collection, "email")
}

func ensureSubscriberIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index(),
		},
	})
}
