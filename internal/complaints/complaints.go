// Package complaints holds the anonymous-capable complaint feed with
// community upvotes.
package complaints

import (
	"context"
	"errors"
	"time"
)

// Status of a complaint in the feed.
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

// Categories accepted on creation.
var Categories = []string{"maintenance", "mess", "cleanliness", "noise", "security", "other"}

// Complaint is a feed entry. StudentID is empty for anonymous posts.
type Complaint struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id,omitempty"`
	Category  string    `json:"category"`
	Text      string    `json:"text"`
	Status    Status    `json:"status"`
	Upvotes   []string  `json:"upvotes"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrNotFound        = errors.New("complaint not found")
	ErrInvalidCategory = errors.New("invalid complaint category")
)

// Repository is the persistence boundary for complaints.
type Repository interface {
	Insert(ctx context.Context, c Complaint) error
	Get(ctx context.Context, id string) (*Complaint, error)
	List(ctx context.Context) ([]Complaint, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	AddUpvote(ctx context.Context, complaintID, studentID string) error
}
