package mongo

import (
	"context"
	"errors"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoBookingRepository implements repository.BookingRepository
type mongoBookingRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingRepository creates a new Booking repository backed by MongoDB.
func NewMongoBookingRepository(db *mongo.Database) repository.BookingRepository {
	return &mongoBookingRepository{
		collection: db.Collection(BookingsCollection),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *domain.Booking) (primitive.ObjectID, error) {
	if booking.MemberEmail == "" || booking.TrainerEmail == "" {
		return primitive.NilObjectID, errors.New("booking requires memberEmail and trainerEmail")
	}
	booking.ID = primitive.NewObjectID()
	if booking.BookedAt.IsZero() {
		booking.BookedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return primitive.NilObjectID, err
	}
	return booking.ID, nil
}

func (r *mongoBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoBookingRepository) ListByTrainerEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return r.list(ctx, bson.M{"trainerEmail": email})
}

func (r *mongoBookingRepository) ListByMemberEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return r.list(ctx, bson.M{"memberEmail": email})
}

func (r *mongoBookingRepository) list(ctx context.Context, filter bson.M) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	if err := findAll(ctx, r.collection, filter, repository.NewestFirst, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountDistinctMembers counts members with at least one paid booking.
func (r *mongoBookingRepository) CountDistinctMembers(ctx context.Context) (int64, error) {
	return countDistinct(ctx, r.collection, "memberEmail")
}

func ensureBookingIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerEmail", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "memberEmail", Value: 1}},
			Options: options.Index(),
		},
	})
}
