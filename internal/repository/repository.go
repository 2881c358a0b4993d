package repository

import (
	"context"
	"fmt"
	"syncfit/connect-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
	ErrInvalidID = RepositoryError("invalid id")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ParseID converts a hex string into an ObjectID. Malformed input yields
// an error wrapping ErrInvalidID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q: %v", ErrInvalidID, hex, err)
	}
	return id, nil
}

// SortOrder controls the order List methods return records in. Records are
// ordered by ObjectID, which follows insertion time.
type SortOrder int

const (
	OldestFirst SortOrder = iota
	NewestFirst
)

// UpdateResult mirrors the driver's acknowledgement for updates.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) (UpdateResult, error)
}

// TrainerRepository gives read access to trainers. Trainers are only
// written by ApplicationRepository.Promote and PaymentRepository.Record.
type TrainerRepository interface {
	List(ctx context.Context) ([]domain.Trainer, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
}

// ApplicationRepository defines the interface for trainer applications,
// including the promotion that turns one into a trainer.
type ApplicationRepository interface {
	// Create stores a pending application. Returns ErrDuplicate when the
	// email already has one pending.
	Create(ctx context.Context, app *domain.TrainerApplication) (primitive.ObjectID, error)
	ListPending(ctx context.Context) ([]domain.TrainerApplication, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerApplication, error)

	// Promote accepts the pending application id: it is moved into the
	// trainers collection and the applicant's user record becomes a
	// trainer, all or nothing. Returns ErrNotFound when no pending
	// application has that id, which includes one another caller has
	// already promoted.
	Promote(ctx context.Context, id primitive.ObjectID, terms domain.PromotionTerms) (*domain.Trainer, error)

	// Reject deletes a pending application. Returns ErrNotFound when none matches.
	Reject(ctx context.Context, id primitive.ObjectID) error
}

// BookingRepository defines the interface for slot bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (primitive.ObjectID, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByTrainerEmail(ctx context.Context, email string) ([]domain.Booking, error)
	ListByMemberEmail(ctx context.Context, email string) ([]domain.Booking, error)
	// CountDistinctMembers counts the distinct member emails that have
	// paid for at least one booking.
	CountDistinctMembers(ctx context.Context) (int64, error)
}

// PaymentRepository defines the interface for trainer salary payments.
type PaymentRepository interface {
	// Record appends the payment and marks the trainer paid in one step.
	// Returns ErrNotFound when the trainer does not exist.
	Record(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error)
	List(ctx context.Context) ([]domain.Payment, error)
}

// SubscriberRepository defines the interface for newsletter subscribers.
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *domain.Subscriber) (primitive.ObjectID, error)
	List(ctx context.Context) ([]domain.Subscriber, error)
	CountDistinctEmails(ctx context.Context) (int64, error)
}

// RecordRepository covers the list-only collections (reviews, forum posts,
// classes, packages, images). Callers assign the ID before Create.
type RecordRepository[T any] interface {
	Create(ctx context.Context, record *T) (primitive.ObjectID, error)
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
