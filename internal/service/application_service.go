package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAlreadyTrainer = fmt.Errorf("%w: user is already a trainer", ErrConflict)
	ErrAlreadyApplied = fmt.Errorf("%w: an application is already pending for this email", ErrConflict)
)

// ApplicationService runs the trainer application lifecycle:
// submit, then either promote or reject.
type ApplicationService interface {
	Submit(ctx context.Context, app *domain.TrainerApplication) (primitive.ObjectID, error)
	ListPending(ctx context.Context) ([]domain.TrainerApplication, error)
	// Promote accepts a pending application. A nil salary means the
	// configured default.
	Promote(ctx context.Context, id primitive.ObjectID, salary *float64) (*domain.Trainer, error)
	Reject(ctx context.Context, id primitive.ObjectID) error
}

type applicationService struct {
	appRepo       repository.ApplicationRepository
	userRepo      repository.UserRepository
	defaultSalary float64
	now           func() time.Time
}

// NewApplicationService creates a new instance of applicationService.
func NewApplicationService(appRepo repository.ApplicationRepository, userRepo repository.UserRepository, defaultSalary float64) ApplicationService {
	return &applicationService{
		appRepo:       appRepo,
		userRepo:      userRepo,
		defaultSalary: defaultSalary,
		now:           time.Now,
	}
}

func (s *applicationService) Submit(ctx context.Context, app *domain.TrainerApplication) (primitive.ObjectID, error) {
	app.Email = strings.TrimSpace(app.Email)
	if app.Email == "" || strings.TrimSpace(app.Name) == "" {
		return primitive.NilObjectID, invalid("name and email are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, app.Email)
	switch {
	case err == nil && (user.IsTrainer() || user.IsAdmin()):
		return primitive.NilObjectID, ErrAlreadyTrainer
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return primitive.NilObjectID, err
	}

	// Promotion fields are only ever set by an admin.
	app.Role = ""
	app.Salary = 0
	app.Payment = ""
	app.AcceptanceDate = nil
	id, err := s.appRepo.Create(ctx, app)
	if errors.Is(err, repository.ErrDuplicate) {
		return primitive.NilObjectID, ErrAlreadyApplied
	}
	return id, err
}

func (s *applicationService) ListPending(ctx context.Context) ([]domain.TrainerApplication, error) {
	return s.appRepo.ListPending(ctx)
}

func (s *applicationService) Promote(ctx context.Context, id primitive.ObjectID, salary *float64) (*domain.Trainer, error) {
	terms := domain.PromotionTerms{
		Salary:     s.defaultSalary,
		AcceptedAt: s.now(),
	}
	if salary != nil {
		if *salary < 0 {
			return nil, invalid("salary cannot be negative")
		}
		terms.Salary = *salary
	}

	trainer, err := s.appRepo.Promote(ctx, id, terms)
	if err != nil {
		return nil, notFoundAs(err, ErrApplicationNotFound)
	}
	return trainer, nil
}

func (s *applicationService) Reject(ctx context.Context, id primitive.ObjectID) error {
	return notFoundAs(s.appRepo.Reject(ctx, id), ErrApplicationNotFound)
}
