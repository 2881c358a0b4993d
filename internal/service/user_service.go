package service

import (
	"context"
	"errors"
	"strings"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService manages user accounts and answers role lookups for the
// access gate.
type UserService interface {
	// EnsureUser stores the user unless one with the same email exists.
	// created is false when the user was already there.
	EnsureUser(ctx context.Context, user *domain.User) (id primitive.ObjectID, created bool, err error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	RoleOf(ctx context.Context, email string) (domain.Role, error)
	MakeAdmin(ctx context.Context, id primitive.ObjectID) (repository.UpdateResult, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// EnsureUser runs on every sign-in. New users always start as members;
// roles only change through promotion or an admin.
func (s *userService) EnsureUser(ctx context.Context, user *domain.User) (primitive.ObjectID, bool, error) {
	user.Email = strings.TrimSpace(user.Email)
	if user.Email == "" {
		return primitive.NilObjectID, false, invalid("email is required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, user.Email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return primitive.NilObjectID, false, err
	}

	user.Role = domain.RoleMember
	user.AcceptanceDate = nil
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Lost a race with a concurrent first sign-in.
		if errors.Is(err, repository.ErrDuplicate) {
			existing, getErr := s.userRepo.GetByEmail(ctx, user.Email)
			if getErr != nil {
				return primitive.NilObjectID, false, getErr
			}
			return existing.ID, false, nil
		}
		return primitive.NilObjectID, false, err
	}
	return id, true, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return user, nil
}

// RoleOf returns the stored role for email.
func (s *userService) RoleOf(ctx context.Context, email string) (domain.Role, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (s *userService) MakeAdmin(ctx context.Context, id primitive.ObjectID) (repository.UpdateResult, error) {
	result, err := s.userRepo.SetRole(ctx, id, domain.RoleAdmin)
	if err != nil {
		return result, err
	}
	if result.MatchedCount == 0 {
		return result, ErrUserNotFound
	}
	return result, nil
}
