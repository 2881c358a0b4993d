package mongo

import (
	"context"
	"errors"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type keyedPtr[T any] interface {
	*T
	domain.Keyed
}

// recordRepository implements repository.RecordRepository for any record
// type that exposes its ObjectID.
type recordRepository[T any, PT keyedPtr[T]] struct {
	collection *mongo.Collection
	order      repository.SortOrder
}

// NewRecordRepository creates a repository over the named collection.
// List returns records in the given order.
func NewRecordRepository[T any, PT keyedPtr[T]](db *mongo.Database, collectionName string, order repository.SortOrder) repository.RecordRepository[T] {
	return &recordRepository[T, PT]{
		collection: db.Collection(collectionName),
		order:      order,
	}
}

// Create inserts the record, assigning an ID when it has none.
func (r *recordRepository[T, PT]) Create(ctx context.Context, record *T) (primitive.ObjectID, error) {
	id := PT(record).DocumentID()
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return primitive.NilObjectID, err
	}
	return *id, nil
}

func (r *recordRepository[T, PT]) List(ctx context.Context) ([]T, error) {
	records := []T{}
	if err := findAll(ctx, r.collection, bson.M{}, r.order, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository[T, PT]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var record T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository[T, PT]) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// findAll decodes every document matching filter into results, which must
// point to a non-nil slice so an empty result encodes as [].
func findAll(ctx context.Context, collection *mongo.Collection, filter interface{}, order repository.SortOrder, results interface{}) error {
	direction := 1
	if order == repository.NewestFirst {
		direction = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: direction}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, results)
}

// countDistinct counts the distinct non-empty values of field across the
// collection with a $group/$count pipeline.
func countDistinct(ctx context.Context, collection *mongo.Collection, field string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{field: bson.M{"$exists": true, "$ne": ""}}}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field}}},
		{{Key: "$count", Value: "total"}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}
