package service

import (
	"context"
	"syncfit/connect-api/internal/repository"
)

// StatsService computes the admin dashboard counters.
type StatsService interface {
	// DistinctSubscribers counts subscribers by email.
	DistinctSubscribers(ctx context.Context) (int64, error)
	// PaidMembers counts distinct members with at least one booking.
	PaidMembers(ctx context.Context) (int64, error)
}

type statsService struct {
	subscriberRepo repository.SubscriberRepository
	bookingRepo    repository.BookingRepository
}

func NewStatsService(subscriberRepo repository.SubscriberRepository, bookingRepo repository.BookingRepository) StatsService {
	return &statsService{subscriberRepo: subscriberRepo, bookingRepo: bookingRepo}
}

func (s *statsService) DistinctSubscribers(ctx context.Context) (int64, error) {
	return s.subscriberRepo.CountDistinctEmails(ctx)
}

func (s *statsService) PaidMembers(ctx context.Context) (int64, error) {
	return s.bookingRepo.CountDistinctMembers(ctx)
}
