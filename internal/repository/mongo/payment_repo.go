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

// mongoPaymentRepository implements repository.PaymentRepository
type mongoPaymentRepository struct {
	payments *mongo.Collection
	trainers *mongo.Collection
	tx       txRunner
}

// NewMongoPaymentRepository creates a new Payment repository backed by MongoDB.
func NewMongoPaymentRepository(db *mongo.Database, useTransactions bool) repository.PaymentRepository {
	return &mongoPaymentRepository{
		payments: db.Collection(PaymentsCollection),
		trainers: db.Collection(TrainersCollection),
		tx:       newTxRunner(db, useTransactions),
	}
}

// Record marks the trainer paid and appends the payment.
func (r *mongoPaymentRepository) Record(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	payment.ID = primitive.NewObjectID()
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now().UTC()
	}

	err := r.tx.run(ctx, func(ctx context.Context) error {
		var before domain.Trainer
		err := r.trainers.FindOneAndUpdate(ctx,
			bson.M{"_id": payment.TrainerID},
			bson.M{"$set": bson.M{"payment": domain.PaymentPaid}},
		).Decode(&before)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return repository.ErrNotFound
			}
			return err
		}

		if _, err := r.payments.InsertOne(ctx, payment); err != nil {
			r.tx.compensate(ctx, "payment status of trainer "+payment.TrainerID.Hex(), func(ctx context.Context) error {
				_, err := r.trainers.UpdateOne(ctx,
					bson.M{"_id": payment.TrainerID},
					bson.M{"$set": bson.M{"payment": before.Payment}})
				return err
			})
			return err
		}
		return nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return payment.ID, nil
}

func (r *mongoPaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	payments := []domain.Payment{}
	if err := findAll(ctx, r.payments, bson.M{}, repository.NewestFirst, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func ensurePaymentIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	})
}
