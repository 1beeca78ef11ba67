package parcels

import (
	"context"
	"sync"
)

// MemoryRepository keeps parcels in process memory.
type MemoryRepository struct {
	mu      sync.Mutex
	parcels []Parcel
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func clone(p Parcel) Parcel {
	out := p
	if p.CollectedAt != nil {
		t := *p.CollectedAt
		out.CollectedAt = &t
	}
	return out
}

func (m *MemoryRepository) Insert(ctx context.Context, p Parcel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parcels = append(m.parcels, clone(p))
	return nil
}

func (m *MemoryRepository) Get(ctx context.Context, id string) (*Parcel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.parcels {
		if p.ID == id {
			c := clone(p)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) Update(ctx context.Context, p Parcel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.parcels {
		if existing.ID == p.ID {
			m.parcels[i] = clone(p)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.parcels {
		if p.ID == id {
			m.parcels = append(m.parcels[:i], m.parcels[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryRepository) List(ctx context.Context) ([]Parcel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Parcel, 0, len(m.parcels))
	for _, p := range m.parcels {
		out = append(out, clone(p))
	}
	return out, nil
}
