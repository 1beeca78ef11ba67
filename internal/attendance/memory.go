package attendance

import (
	"context"
	"sync"
)

// MemoryRepository keeps attendance state in process memory. Used for tests
// and STORE_BACKEND=memory.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions []Session
	records  map[string]Record // key dateKey|studentID
	fence    *Fence
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]Record)}
}

func recordKey(dateKey, studentID string) string {
	return dateKey + "|" + studentID
}

func (m *MemoryRepository) InsertSession(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *MemoryRepository) ListSessions(ctx context.Context, dateKey string) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Session
	for _, s := range m.sessions {
		if dateKey != "" && s.DateKey != dateKey {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *MemoryRepository) LockSessions(ctx context.Context, dateKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sessions {
		if s.DateKey == dateKey {
			m.sessions[i].Locked = true
		}
	}
	return nil
}

func (m *MemoryRepository) UpsertRecord(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey(rec.DateKey, rec.StudentID)] = rec
	return nil
}

func (m *MemoryRepository) GetRecord(ctx context.Context, dateKey, studentID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey(dateKey, studentID)]
	if !ok {
		return nil, nil
	}
	c := rec
	return &c, nil
}

func (m *MemoryRepository) ListRecords(ctx context.Context, dateKey string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.records {
		if rec.DateKey == dateKey {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MemoryRepository) GetFence(ctx context.Context) (*Fence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fence == nil {
		return nil, nil
	}
	c := *m.fence
	return &c, nil
}

func (m *MemoryRepository) SetFence(ctx context.Context, f Fence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fence = &f
	return nil
}
