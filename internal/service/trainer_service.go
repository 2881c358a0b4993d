package service

import (
	"context"
	"strings"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerService covers trainer profiles, their time slots and bookings.
type TrainerService interface {
	ListTrainers(ctx context.Context) ([]domain.Trainer, error)
	GetTrainer(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	GetTimeSlot(ctx context.Context, trainerID primitive.ObjectID, day string, index int) (*domain.TimeSlot, error)

	CreateBooking(ctx context.Context, booking *domain.Booking) (primitive.ObjectID, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	BookingsForTrainer(ctx context.Context, trainerEmail string) ([]domain.Booking, error)
	BookingsForMember(ctx context.Context, memberEmail string) ([]domain.Booking, error)
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	trainerRepo repository.TrainerRepository
	bookingRepo repository.BookingRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(trainerRepo repository.TrainerRepository, bookingRepo repository.BookingRepository) TrainerService {
	return &trainerService{
		trainerRepo: trainerRepo,
		bookingRepo: bookingRepo,
	}
}

func (s *trainerService) ListTrainers(ctx context.Context) ([]domain.Trainer, error) {
	return s.trainerRepo.List(ctx)
}

func (s *trainerService) GetTrainer(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTrainerNotFound)
	}
	return trainer, nil
}

// GetTimeSlot returns one slot of the trainer's schedule for day.
func (s *trainerService) GetTimeSlot(ctx context.Context, trainerID primitive.ObjectID, day string, index int) (*domain.TimeSlot, error) {
	trainer, err := s.GetTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	slot, ok := trainer.Slot(day, index)
	if !ok {
		return nil, ErrTimeSlotNotFound
	}
	return &slot, nil
}

// CreateBooking stores a booking. When the booking names a trainer by ID
// the trainer's email, name and the booked slot are filled in from the
// stored profile.
func (s *trainerService) CreateBooking(ctx context.Context, booking *domain.Booking) (primitive.ObjectID, error) {
	booking.MemberEmail = strings.TrimSpace(booking.MemberEmail)
	if booking.MemberEmail == "" {
		return primitive.NilObjectID, invalid("memberEmail is required")
	}

	if !booking.TrainerID.IsZero() {
		trainer, err := s.GetTrainer(ctx, booking.TrainerID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		booking.TrainerEmail = trainer.Email
		if booking.TrainerName == "" {
			booking.TrainerName = trainer.Name
		}
		if booking.Day != "" {
			slot, ok := trainer.Slot(booking.Day, booking.SlotIndex)
			if !ok {
				return primitive.NilObjectID, ErrTimeSlotNotFound
			}
			booking.Slot = &slot
		}
	}
	if booking.TrainerEmail == "" {
		return primitive.NilObjectID, invalid("trainerId or trainerEmail is required")
	}

	return s.bookingRepo.Create(ctx, booking)
}

func (s *trainerService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookingRepo.List(ctx)
}

func (s *trainerService) BookingsForTrainer(ctx context.Context, trainerEmail string) ([]domain.Booking, error) {
	return s.bookingRepo.ListByTrainerEmail(ctx, trainerEmail)
}

func (s *trainerService) BookingsForMember(ctx context.Context, memberEmail string) ([]domain.Booking, error) {
	return s.bookingRepo.ListByMemberEmail(ctx, memberEmail)
}
