package events

import (
	"context"
	"sync"
)

// MemoryRepository keeps events in process memory.
type MemoryRepository struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func clone(e Event) Event {
	out := e
	out.Registrations = append([]string(nil), e.Registrations...)
	out.Comments = append([]Comment(nil), e.Comments...)
	if e.Expected != nil {
		v := *e.Expected
		out.Expected = &v
	}
	if e.Budget != nil {
		v := *e.Budget
		out.Budget = &v
	}
	return out
}

func (m *MemoryRepository) Insert(ctx context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, clone(e))
	return nil
}

func (m *MemoryRepository) Get(ctx context.Context, id string) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			c := clone(e)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, clone(e))
	}
	return out, nil
}

func (m *MemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.events {
		if e.ID == id {
			m.events[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryRepository) AddRegistration(ctx context.Context, eventID, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.events {
		if e.ID != eventID {
			continue
		}
		for _, id := range e.Registrations {
			if id == studentID {
				return nil
			}
		}
		m.events[i].Registrations = append(m.events[i].Registrations, studentID)
		return nil
	}
	return ErrNotFound
}

func (m *MemoryRepository) AddComment(ctx context.Context, eventID string, c Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.events {
		if e.ID == eventID {
			m.events[i].Comments = append(m.events[i].Comments, c)
			return nil
		}
	}
	return ErrNotFound
}
