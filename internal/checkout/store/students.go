package store

import (
	"context"

	"labcheckout/internal/checkout/models"
)

// InMemoryStudentStore keeps the student registry.
type InMemoryStudentStore struct {
	registry *Registry[models.Student]
}

// NewStudentStore creates a student store holding at most capacity students (0 = unbounded).
func NewStudentStore(capacity int) *InMemoryStudentStore {
	return &InMemoryStudentStore{registry: NewRegistry[models.Student]("Student", capacity)}
}

func (s *InMemoryStudentStore) Add(ctx context.Context, student *models.Student) error {
	return s.registry.Add(ctx, *student)
}

func (s *InMemoryStudentStore) FindByUID(ctx context.Context, uid string) (*models.Student, error) {
	student, err := s.registry.Find(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *InMemoryStudentStore) List(ctx context.Context) ([]*models.Student, error) {
	items := s.registry.List(ctx)
	out := make([]*models.Student, 0, len(items))
	for i := range items {
		out = append(out, &items[i])
	}
	return out, nil
}

// IncrementBorrowCount records one more active borrow for uid.
func (s *InMemoryStudentStore) IncrementBorrowCount(ctx context.Context, uid string) (*models.Student, error) {
	student, err := s.registry.Update(ctx, uid, func(st *models.Student) error {
		st.BorrowCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Len reports how many students are registered.
func (s *InMemoryStudentStore) Len() int {
	return s.registry.Len()
}

// Capacity is the registry's fixed size, 0 when it grows on demand.
func (s *InMemoryStudentStore) Capacity() int {
	return s.registry.Capacity()
}
