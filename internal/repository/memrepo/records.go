package memrepo

import (
	"context"
	"sync"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type keyedPtr[T any] interface {
	*T
	domain.Keyed
}

// Records is an in-memory repository.RecordRepository.
type Records[T any, PT keyedPtr[T]] struct {
	mu      sync.Mutex
	records []T
	order   repository.SortOrder
}

// NewRecords returns an empty record repository listing in the given order.
func NewRecords[T any, PT keyedPtr[T]](order repository.SortOrder) *Records[T, PT] {
	return &Records[T, PT]{order: order}
}

func (r *Records[T, PT]) Create(_ context.Context, record *T) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := PT(record).DocumentID()
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	r.records = append(r.records, *record)
	return *id, nil
}

func (r *Records[T, PT]) List(_ context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.records))
	if r.order == repository.NewestFirst {
		for i := len(r.records) - 1; i >= 0; i-- {
			out = append(out, r.records[i])
		}
		return out, nil
	}
	return append(out, r.records...), nil
}

func (r *Records[T, PT]) GetByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(id); i >= 0 {
		record := r.records[i]
		return &record, nil
	}
	return nil, repository.ErrNotFound
}

func (r *Records[T, PT]) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

func (r *Records[T, PT]) index(id primitive.ObjectID) int {
	for i := range r.records {
		if *PT(&r.records[i]).DocumentID() == id {
			return i
		}
	}
	return -1
}
