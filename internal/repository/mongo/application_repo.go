package mongo

import (
	"context"
	"errors"
	"log"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoApplicationRepository implements repository.ApplicationRepository.
// Promotion writes to three collections, so it holds all of them.
type mongoApplicationRepository struct {
	applications *mongo.Collection
	trainers     *mongo.Collection
	users        *mongo.Collection
	tx           txRunner
}

// NewMongoApplicationRepository creates a new application repository.
// useTransactions must be false against a standalone server.
func NewMongoApplicationRepository(db *mongo.Database, useTransactions bool) repository.ApplicationRepository {
	return &mongoApplicationRepository{
		applications: db.Collection(ApplicationsCollection),
		trainers:     db.Collection(TrainersCollection),
		users:        db.Collection(UsersCollection),
		tx:           newTxRunner(db, useTransactions),
	}
}

// Create stores a new pending application.
func (r *mongoApplicationRepository) Create(ctx context.Context, app *domain.TrainerApplication) (primitive.ObjectID, error) {
	if app.Email == "" {
		return primitive.NilObjectID, errors.New("application email is required")
	}
	app.ID = primitive.NewObjectID()
	app.Status = domain.ApplicationPending
	app.SubmittedAt = time.Now().UTC()

	if _, err := r.applications.InsertOne(ctx, app); err != nil {
		// One pending application per email, enforced by a partial unique index.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return app.ID, nil
}

func (r *mongoApplicationRepository) ListPending(ctx context.Context) ([]domain.TrainerApplication, error) {
	apps := []domain.TrainerApplication{}
	filter := bson.M{"status": domain.ApplicationPending}
	if err := findAll(ctx, r.applications, filter, repository.OldestFirst, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *mongoApplicationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerApplication, error) {
	var app domain.TrainerApplication
	err := r.applications.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// Promote moves a pending application into trainers and makes its owner a
// trainer. The status filter on the first update is the compare-and-swap
// that keeps two concurrent promotions of one id from both succeeding.
func (r *mongoApplicationRepository) Promote(ctx context.Context, id primitive.ObjectID, terms domain.PromotionTerms) (*domain.Trainer, error) {
	acceptedAt := terms.AcceptedAt.UTC()
	var trainer *domain.Trainer

	err := r.tx.run(ctx, func(ctx context.Context) error {
		// 1. Claim the application and read back the updated document.
		filter := bson.M{"_id": id, "status": domain.ApplicationPending}
		update := bson.M{"$set": bson.M{
			"status":         domain.ApplicationAccepted,
			"role":           domain.RoleTrainer,
			"salary":         terms.Salary,
			"payment":        domain.PaymentPending,
			"acceptanceDate": acceptedAt,
		}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

		var app domain.TrainerApplication
		if err := r.applications.FindOneAndUpdate(ctx, filter, update, opts).Decode(&app); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return repository.ErrNotFound
			}
			return err
		}

		if err := r.moveToTrainers(ctx, &app, acceptedAt); err != nil {
			r.tx.compensate(ctx, "promotion of application "+id.Hex(), func(ctx context.Context) error {
				_, err := r.applications.UpdateOne(ctx,
					bson.M{"_id": id, "status": domain.ApplicationAccepted},
					bson.M{"$set": bson.M{"status": domain.ApplicationPending}})
				return err
			})
			return err
		}

		trainer = app.ToTrainer()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trainer, nil
}

// moveToTrainers performs steps 2 and 3 of a promotion. Every write is
// idempotent and the application is deleted last, so a promotion that
// fails without a transaction can be retried once the application is back
// to pending.
func (r *mongoApplicationRepository) moveToTrainers(ctx context.Context, app *domain.TrainerApplication, acceptedAt time.Time) error {
	_, err := r.trainers.ReplaceOne(ctx, bson.M{"_id": app.ID}, app.ToTrainer(), options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}

	result, err := r.users.UpdateOne(ctx,
		bson.M{"email": app.Email},
		bson.M{"$set": bson.M{"role": domain.RoleTrainer, "acceptanceDate": acceptedAt}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		log.Printf("WARN: Promoting application %s but no user has email %q", app.ID.Hex(), app.Email)
	}

	_, err = r.applications.DeleteOne(ctx, bson.M{"_id": app.ID})
	return err
}

// Reject deletes a pending application.
func (r *mongoApplicationRepository) Reject(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.applications.DeleteOne(ctx, bson.M{"_id": id, "status": domain.ApplicationPending})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func ensureApplicationIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_pending_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.ApplicationPending}),
		},
	})
}
