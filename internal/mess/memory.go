package mess

import (
	"context"
	"sync"
)

// MemoryRepository keeps poll state in process memory.
type MemoryRepository struct {
	mu        sync.Mutex
	weekly    []WeeklyPoll
	votes     map[string]WeeklyVote // key pollID|studentID|day|meal
	daily     []DailyPoll
	responses map[string]DailyResponse // key pollID|studentID
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		votes:     make(map[string]WeeklyVote),
		responses: make(map[string]DailyResponse),
	}
}

func cloneWeekly(p WeeklyPoll) WeeklyPoll {
	out := p
	out.Options = append([]string(nil), p.Options...)
	return out
}

func (m *MemoryRepository) InsertWeekly(ctx context.Context, p WeeklyPoll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weekly = append(m.weekly, cloneWeekly(p))
	return nil
}

func (m *MemoryRepository) ListWeekly(ctx context.Context) ([]WeeklyPoll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]WeeklyPoll, 0, len(m.weekly))
	for _, p := range m.weekly {
		out = append(out, cloneWeekly(p))
	}
	return out, nil
}

func (m *MemoryRepository) GetWeekly(ctx context.Context, id string) (*WeeklyPoll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.weekly {
		if p.ID == id {
			c := cloneWeekly(p)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) UpdateWeekly(ctx context.Context, p WeeklyPoll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.weekly {
		if existing.ID == p.ID {
			m.weekly[i] = cloneWeekly(p)
			return nil
		}
	}
	return ErrPollNotFound
}

func (m *MemoryRepository) UpsertWeeklyVote(ctx context.Context, v WeeklyVote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.votes[v.PollID+"|"+v.StudentID+"|"+v.Day+"|"+v.Meal] = v
	return nil
}

func (m *MemoryRepository) ListWeeklyVotes(ctx context.Context, pollID string) ([]WeeklyVote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []WeeklyVote
	for _, v := range m.votes {
		if v.PollID == pollID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *MemoryRepository) InsertDaily(ctx context.Context, p DailyPoll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.daily = append(m.daily, p)
	return nil
}

func (m *MemoryRepository) ListDaily(ctx context.Context, dateKey string) ([]DailyPoll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []DailyPoll
	for _, p := range m.daily {
		if dateKey == "" || p.DateKey == dateKey {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryRepository) GetDaily(ctx context.Context, id string) (*DailyPoll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.daily {
		if p.ID == id {
			c := p
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) UpdateDaily(ctx context.Context, p DailyPoll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.daily {
		if existing.ID == p.ID {
			m.daily[i] = p
			return nil
		}
	}
	return ErrPollNotFound
}

func (m *MemoryRepository) UpsertDailyResponse(ctx context.Context, r DailyResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[r.PollID+"|"+r.StudentID] = r
	return nil
}

func (m *MemoryRepository) ListDailyResponses(ctx context.Context, pollID string) ([]DailyResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []DailyResponse
	for _, r := range m.responses {
		if r.PollID == pollID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryRepository) CountSkips(ctx context.Context, studentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.responses {
		if r.StudentID == studentID && r.Choice == ChoiceSkip {
			count++
		}
	}
	return count, nil
}
