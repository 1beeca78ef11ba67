package complaints

import (
	"context"
	"sync"
)

// MemoryRepository keeps complaints in process memory.
type MemoryRepository struct {
	mu         sync.Mutex
	complaints []Complaint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func cloneComplaint(c Complaint) Complaint {
	out := c
	out.Upvotes = append([]string(nil), c.Upvotes...)
	return out
}

func (r *MemoryRepository) Insert(_ context.Context, c Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.complaints = append(r.complaints, cloneComplaint(c))
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.complaints {
		if c.ID == id {
			out := cloneComplaint(c)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Complaint, 0, len(r.complaints))
	for _, c := range r.complaints {
		out = append(out, cloneComplaint(c))
	}
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.complaints {
		if r.complaints[i].ID == id {
			r.complaints[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepository) AddUpvote(_ context.Context, complaintID, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.complaints {
		if r.complaints[i].ID != complaintID {
			continue
		}
		for _, voter := range r.complaints[i].Upvotes {
			if voter == studentID {
				return nil
			}
		}
		r.complaints[i].Upvotes = append(r.complaints[i].Upvotes, studentID)
		return nil
	}
	return ErrNotFound
}
