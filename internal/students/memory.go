package students

import (
	"context"
	"sync"
)

// MemoryRepository keeps students in process memory, in insertion order.
type MemoryRepository struct {
	mu       sync.Mutex
	students []Student
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func clone(s Student) Student {
	out := s
	if s.Credentials != nil {
		c := *s.Credentials
		out.Credentials = &c
	}
	if s.Details.TotalAmount != nil {
		v := *s.Details.TotalAmount
		out.Details.TotalAmount = &v
	}
	return out
}

func (m *MemoryRepository) List(ctx context.Context) ([]Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, clone(s))
	}
	return out, nil
}

func (m *MemoryRepository) Get(ctx context.Context, id string) (*Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.ID == id {
			c := clone(s)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) GetByUsername(ctx context.Context, username string) (*Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.Credentials != nil && s.Credentials.Username == username {
			c := clone(s)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.RollNumber == rollNumber {
			c := clone(s)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) Insert(ctx context.Context, s Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = append(m.students, clone(s))
	return nil
}

func (m *MemoryRepository) Update(ctx context.Context, s Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.students {
		if existing.ID == s.ID {
			m.students[i] = clone(s)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.students {
		if s.ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
