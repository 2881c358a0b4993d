package service

import (
	"context"
	"strings"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommunityService covers the independent list/append records: reviews,
// newsletter subscriptions, forum posts, classes and packages.
type CommunityService interface {
	ListReviews(ctx context.Context) ([]domain.Review, error)
	AddReview(ctx context.Context, review *domain.Review) (primitive.ObjectID, error)

	Subscribe(ctx context.Context, subscriber *domain.Subscriber) (primitive.ObjectID, error)
	ListSubscribers(ctx context.Context) ([]domain.Subscriber, error)

	ListForumPosts(ctx context.Context) ([]domain.ForumPost, error)
	CreateForumPost(ctx context.Context, post *domain.ForumPost) (primitive.ObjectID, error)

	ListClasses(ctx context.Context) ([]domain.Class, error)
	GetClass(ctx context.Context, id primitive.ObjectID) (*domain.Class, error)
	CreateClass(ctx context.Context, class *domain.Class) (primitive.ObjectID, error)

	ListPackages(ctx context.Context) ([]domain.Package, error)
}

// CommunityRepos groups the repositories CommunityService needs.
type CommunityRepos struct {
	Reviews     repository.RecordRepository[domain.Review]
	Subscribers repository.SubscriberRepository
	Forums      repository.RecordRepository[domain.ForumPost]
	Classes     repository.RecordRepository[domain.Class]
	Packages    repository.RecordRepository[domain.Package]
}

type communityService struct {
	repos CommunityRepos
	now   func() time.Time
}

// NewCommunityService creates a new instance of communityService.
func NewCommunityService(repos CommunityRepos) CommunityService {
	return &communityService{repos: repos, now: time.Now}
}

func (s *communityService) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return s.repos.Reviews.List(ctx)
}

func (s *communityService) AddReview(ctx context.Context, review *domain.Review) (primitive.ObjectID, error) {
	if strings.TrimSpace(review.Comment) == "" {
		return primitive.NilObjectID, invalid("comment is required")
	}
	if review.Rating < 0 || review.Rating > 5 {
		return primitive.NilObjectID, invalid("rating must be between 0 and 5")
	}
	review.ID = primitive.NilObjectID
	review.CreatedAt = s.now().UTC()
	return s.repos.Reviews.Create(ctx, review)
}

func (s *communityService) Subscribe(ctx context.Context, subscriber *domain.Subscriber) (primitive.ObjectID, error) {
	subscriber.Email = strings.TrimSpace(subscriber.Email)
	if subscriber.Email == "" {
		return primitive.NilObjectID, invalid("email is required")
	}
	subscriber.ID = primitive.NilObjectID
	subscriber.SubscribedAt = s.now().UTC()
	return s.repos.Subscribers.Create(ctx, subscriber)
}

func (s *communityService) ListSubscribers(ctx context.Context) ([]domain.Subscriber, error) {
	return s.repos.Subscribers.List(ctx)
}

func (s *communityService) ListForumPosts(ctx context.Context) ([]domain.ForumPost, error) {
	return s.repos.Forums.List(ctx)
}

func (s *communityService) CreateForumPost(ctx context.Context, post *domain.ForumPost) (primitive.ObjectID, error) {
	if strings.TrimSpace(post.Title) == "" || strings.TrimSpace(post.Body) == "" {
		return primitive.NilObjectID, invalid("title and body are required")
	}
	post.ID = primitive.NilObjectID
	post.CreatedAt = s.now().UTC()
	return s.repos.Forums.Create(ctx, post)
}

func (s *communityService) ListClasses(ctx context.Context) ([]domain.Class, error) {
	return s.repos.Classes.List(ctx)
}

func (s *communityService) GetClass(ctx context.Context, id primitive.ObjectID) (*domain.Class, error) {
	class, err := s.repos.Classes.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrClassNotFound)
	}
	return class, nil
}

func (s *communityService) CreateClass(ctx context.Context, class *domain.Class) (primitive.ObjectID, error) {
	if strings.TrimSpace(class.Name) == "" {
		return primitive.NilObjectID, invalid("class name is required")
	}
	class.ID = primitive.NilObjectID
	class.CreatedAt = s.now().UTC()
	return s.repos.Classes.Create(ctx, class)
}

func (s *communityService) ListPackages(ctx context.Context) ([]domain.Package, error) {
	return s.repos.Packages.List(ctx)
}
