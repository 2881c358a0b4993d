// Package memrepo implements the repository interfaces in memory. The
// service and API tests run against it instead of a MongoDB server.
package memrepo

import (
	"context"
	"errors"
	"sync"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one lock, which makes the
// multi-collection writes atomic the way a transaction would.
type Store struct {
	mu           sync.Mutex
	users        []domain.User
	trainers     []domain.Trainer
	applications []domain.TrainerApplication
	bookings     []domain.Booking
	payments     []domain.Payment
	subscribers  []domain.Subscriber

	// FailNext, when set, is returned by the next write and then cleared.
	FailNext error
}

func New() *Store {
	return &Store{}
}

func (s *Store) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

// AddTrainer seeds a trainer directly.
func (s *Store) AddTrainer(t domain.Trainer) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	s.trainers = append(s.trainers, t)
	return t.ID
}

func (s *Store) Users() repository.UserRepository               { return userRepo{s} }
func (s *Store) Trainers() repository.TrainerRepository         { return trainerRepo{s} }
func (s *Store) Applications() repository.ApplicationRepository { return applicationRepo{s} }
func (s *Store) Bookings() repository.BookingRepository         { return bookingRepo{s} }
func (s *Store) Payments() repository.PaymentRepository         { return paymentRepo{s} }
func (s *Store) Subscribers() repository.SubscriberRepository   { return subscriberRepo{s} }

// --- users ---

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return primitive.NilObjectID, err
	}
	if user.Email == "" {
		return primitive.NilObjectID, errors.New("user email is required")
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	if user.Role == "" {
		user.Role = domain.RoleMember
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	r.s.users = append(r.s.users, *user)
	return user.ID, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.User{}, r.s.users...), nil
}

func (r userRepo) SetRole(_ context.Context, id primitive.ObjectID, role domain.Role) (repository.UpdateResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return repository.UpdateResult{}, err
	}
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			res := repository.UpdateResult{MatchedCount: 1}
			if r.s.users[i].Role != role {
				r.s.users[i].Role = role
				res.ModifiedCount = 1
			}
			return res, nil
		}
	}
	return repository.UpdateResult{}, nil
}

// --- trainers ---

type trainerRepo struct{ s *Store }

func (r trainerRepo) List(_ context.Context) ([]domain.Trainer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.Trainer{}, r.s.trainers...), nil
}

func (r trainerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.trainers {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- applications ---

type applicationRepo struct{ s *Store }

func (r applicationRepo) Create(_ context.Context, app *domain.TrainerApplication) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return primitive.NilObjectID, err
	}
	if app.Email == "" {
		return primitive.NilObjectID, errors.New("application email is required")
	}
	for _, a := range r.s.applications {
		if a.Email == app.Email && a.Status == domain.ApplicationPending {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	app.ID = primitive.NewObjectID()
	app.Status = domain.ApplicationPending
	app.SubmittedAt = time.Now().UTC()
	r.s.applications = append(r.s.applications, *app)
	return app.ID, nil
}

func (r applicationRepo) ListPending(_ context.Context) ([]domain.TrainerApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	apps := []domain.TrainerApplication{}
	for _, a := range r.s.applications {
		if a.Status == domain.ApplicationPending {
			apps = append(apps, a)
		}
	}
	return apps, nil
}

func (r applicationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainerApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if i := r.s.applicationIndex(id); i >= 0 {
		app := r.s.applications[i]
		return &app, nil
	}
	return nil, repository.ErrNotFound
}

func (r applicationRepo) Promote(_ context.Context, id primitive.ObjectID, terms domain.PromotionTerms) (*domain.Trainer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.s.applicationIndex(id)
	if i < 0 || r.s.applications[i].Status != domain.ApplicationPending {
		return nil, repository.ErrNotFound
	}
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	acceptedAt := terms.AcceptedAt.UTC()
	app := r.s.applications[i]
	app.Status = domain.ApplicationAccepted
	app.Role = domain.RoleTrainer
	app.Salary = terms.Salary
	app.Payment = domain.PaymentPending
	app.AcceptanceDate = &acceptedAt

	trainer := app.ToTrainer()
	r.s.trainers = append(r.s.trainers, *trainer)
	r.s.applications = append(r.s.applications[:i], r.s.applications[i+1:]...)
	for j := range r.s.users {
		if r.s.users[j].Email == app.Email {
			r.s.users[j].Role = domain.RoleTrainer
			r.s.users[j].AcceptanceDate = &acceptedAt
		}
	}
	return trainer, nil
}

func (r applicationRepo) Reject(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.s.applicationIndex(id)
	if i < 0 || r.s.applications[i].Status != domain.ApplicationPending {
		return repository.ErrNotFound
	}
	r.s.applications = append(r.s.applications[:i], r.s.applications[i+1:]...)
	return nil
}

func (s *Store) applicationIndex(id primitive.ObjectID) int {
	for i, a := range s.applications {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// --- bookings ---

type bookingRepo struct{ s *Store }

func (r bookingRepo) Create(_ context.Context, booking *domain.Booking) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return primitive.NilObjectID, err
	}
	if booking.MemberEmail == "" || booking.TrainerEmail == "" {
		return primitive.NilObjectID, errors.New("booking requires memberEmail and trainerEmail")
	}
	booking.ID = primitive.NewObjectID()
	if booking.BookedAt.IsZero() {
		booking.BookedAt = time.Now().UTC()
	}
	r.s.bookings = append(r.s.bookings, *booking)
	return booking.ID, nil
}

func (r bookingRepo) List(_ context.Context) ([]domain.Booking, error) {
	return r.filter(func(domain.Booking) bool { return true }), nil
}

func (r bookingRepo) ListByTrainerEmail(_ context.Context, email string) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.TrainerEmail == email }), nil
}

func (r bookingRepo) ListByMemberEmail(_ context.Context, email string) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.MemberEmail == email }), nil
}

// filter returns matching bookings newest first.
func (r bookingRepo) filter(keep func(domain.Booking) bool) []domain.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Booking{}
	for i := len(r.s.bookings) - 1; i >= 0; i-- {
		if keep(r.s.bookings[i]) {
			out = append(out, r.s.bookings[i])
		}
	}
	return out
}

func (r bookingRepo) CountDistinctMembers(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return countDistinct(len(r.s.bookings), func(i int) string { return r.s.bookings[i].MemberEmail }), nil
}

// --- payments ---

type paymentRepo struct{ s *Store }

func (r paymentRepo) Record(_ context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return primitive.NilObjectID, err
	}
	for i := range r.s.trainers {
		if r.s.trainers[i].ID == payment.TrainerID {
			r.s.trainers[i].Payment = domain.PaymentPaid
			payment.ID = primitive.NewObjectID()
			if payment.PaidAt.IsZero() {
				payment.PaidAt = time.Now().UTC()
			}
			r.s.payments = append(r.s.payments, *payment)
			return payment.ID, nil
		}
	}
	return primitive.NilObjectID, repository.ErrNotFound
}

func (r paymentRepo) List(_ context.Context) ([]domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Payment{}
	for i := len(r.s.payments) - 1; i >= 0; i-- {
		out = append(out, r.s.payments[i])
	}
	return out, nil
}

// --- subscribers ---

type subscriberRepo struct{ s *Store }

func (r subscriberRepo) Create(_ context.Context, subscriber *domain.Subscriber) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return primitive.NilObjectID, err
	}
	if subscriber.ID.IsZero() {
		subscriber.ID = primitive.NewObjectID()
	}
	if subscriber.SubscribedAt.IsZero() {
		subscriber.SubscribedAt = time.Now().UTC()
	}
	r.s.subscribers = append(r.s.subscribers, *subscriber)
	return subscriber.ID, nil
}

func (r subscriberRepo) List(_ context.Context) ([]domain.Subscriber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.Subscriber{}, r.s.subscribers...), nil
}

func (r subscriberRepo) CountDistinctEmails(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return countDistinct(len(r.s.subscribers), func(i int) string { return r.s.subscribers[i].Email }), nil
}

func countDistinct(n int, key func(i int) string) int64 {
	seen := make(map[string]struct{})
	for i := 0; i < n; i++ {
		if k := key(i); k != "" {
			seen[k] = struct{}{}
		}
	}
	return int64(len(seen))
}
