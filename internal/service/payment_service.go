package service

import (
	"context"
	"fmt"
	"strings"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/payment"
	"syncfit/connect-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPaymentsDisabled = fmt.Errorf("%w: payment processor is not configured", ErrUnavailable)

// PaymentService handles trainer salary payments.
type PaymentService interface {
	CreateIntent(ctx context.Context, amount float64, trainerID primitive.ObjectID) (*domain.PaymentIntent, error)
	PayTrainer(ctx context.Context, p *domain.Payment) (primitive.ObjectID, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
}

type paymentService struct {
	gateway     payment.Gateway // nil when no processor is configured
	paymentRepo repository.PaymentRepository
	trainerRepo repository.TrainerRepository
}

// NewPaymentService creates a new instance of paymentService. gateway may be nil.
func NewPaymentService(gateway payment.Gateway, paymentRepo repository.PaymentRepository, trainerRepo repository.TrainerRepository) PaymentService {
	return &paymentService{
		gateway:     gateway,
		paymentRepo: paymentRepo,
		trainerRepo: trainerRepo,
	}
}

// CreateIntent opens a checkout for amount. When trainerID is set the
// checkout is labelled with the trainer and references their ID.
func (s *paymentService) CreateIntent(ctx context.Context, amount float64, trainerID primitive.ObjectID) (*domain.PaymentIntent, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	if amount <= 0 {
		return nil, invalid("price must be positive")
	}

	req := payment.IntentRequest{
		Amount: amount,
		Title:  "SyncFit trainer salary",
	}
	if !trainerID.IsZero() {
		trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
		if err != nil {
			return nil, notFoundAs(err, ErrTrainerNotFound)
		}
		req.Title = "SyncFit salary for " + trainer.Name
		req.Reference = trainer.ID.Hex()
	}
	return s.gateway.CreateIntent(ctx, req)
}

// PayTrainer records a completed salary payment and marks the trainer paid.
func (s *paymentService) PayTrainer(ctx context.Context, p *domain.Payment) (primitive.ObjectID, error) {
	if p.TrainerID.IsZero() {
		return primitive.NilObjectID, invalid("trainerId is required")
	}
	if p.Amount <= 0 {
		return primitive.NilObjectID, invalid("amount must be positive")
	}

	trainer, err := s.trainerRepo.GetByID(ctx, p.TrainerID)
	if err != nil {
		return primitive.NilObjectID, notFoundAs(err, ErrTrainerNotFound)
	}
	p.TrainerEmail = trainer.Email
	p.TrainerName = trainer.Name
	p.TransactionID = strings.TrimSpace(p.TransactionID)

	id, err := s.paymentRepo.Record(ctx, p)
	if err != nil {
		return primitive.NilObjectID, notFoundAs(err, ErrTrainerNotFound)
	}
	return id, nil
}

func (s *paymentService) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.paymentRepo.List(ctx)
}
