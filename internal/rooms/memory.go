package rooms

import (
	"context"
	"sync"
)

// MemoryRepository keeps rooms and requests in process memory, serializing
// every operation under one mutex. Used for tests and STORE_BACKEND=memory.
type MemoryRepository struct {
	mu       sync.Mutex
	rooms    []Room
	requests []Request
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func cloneRoom(r Room) Room {
	out := r
	out.Occupants = append([]string(nil), r.Occupants...)
	return out
}

func (m *MemoryRepository) ListRooms(ctx context.Context) ([]Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, cloneRoom(r))
	}
	return out, nil
}

func (m *MemoryRepository) GetRoom(ctx context.Context, id string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.ID == id {
			c := cloneRoom(r)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) InsertRoom(ctx context.Context, room Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms = append(m.rooms, cloneRoom(room))
	return nil
}

func (m *MemoryRepository) UpdateRoom(ctx context.Context, room Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(room)
}

func (m *MemoryRepository) updateLocked(room Room) error {
	for i, r := range m.rooms {
		if r.ID == room.ID {
			m.rooms[i] = cloneRoom(room)
			return nil
		}
	}
	return ErrRoomNotFound
}

func (m *MemoryRepository) UpdateRooms(ctx context.Context, updated []Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, room := range updated {
		if err := m.updateLocked(room); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryRepository) DeleteRoom(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rooms {
		if r.ID == id {
			m.rooms = append(m.rooms[:i], m.rooms[i+1:]...)
			return nil
		}
	}
	return ErrRoomNotFound
}

func (m *MemoryRepository) FindRoomByOccupant(ctx context.Context, studentID string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		for _, occ := range r.Occupants {
			if occ == studentID {
				c := cloneRoom(r)
				return &c, nil
			}
		}
	}
	return nil, nil
}

func (m *MemoryRepository) ReconcileFill(ctx context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rooms {
		if r.ID == roomID {
			m.rooms[i].FilledCount = len(r.Occupants)
			return nil
		}
	}
	return ErrRoomNotFound
}

func (m *MemoryRepository) ListRequests(ctx context.Context, status RequestStatus) ([]Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, 0, len(m.requests))
	for _, req := range m.requests {
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (m *MemoryRepository) GetRequest(ctx context.Context, id string) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range m.requests {
		if req.ID == id {
			c := req
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) InsertRequest(ctx context.Context, req Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return nil
}

func (m *MemoryRepository) UpdateRequest(ctx context.Context, req Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.requests {
		if existing.ID == req.ID {
			m.requests[i] = req
			return nil
		}
	}
	return ErrRequestNotFound
}
