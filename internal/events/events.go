package events

import (
	"context"
	"errors"
	"time"
)

// Organizer of an event.
type Organizer string

const (
	OrganizerStudent Organizer = "student"
	OrganizerWarden  Organizer = "warden"
)

// Status of an event proposal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// Comment is a discussion entry under an event.
type Comment struct {
	ID        string    `json:"id"`
	Author    Organizer `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a proposed or scheduled hostel event. Budget is warden-only in
// the UI; registrations hold student ids.
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Organizer     Organizer `json:"organizer"`
	OrganizerName string    `json:"organizer_name,omitempty"`
	Type          string    `json:"type"`
	StartsAt      time.Time `json:"starts_at"`
	Venue         string    `json:"venue"`
	Expected      *int      `json:"expected,omitempty"`
	Budget        *float64  `json:"budget,omitempty"`
	PosterURL     string    `json:"poster_url,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	Registrations []string  `json:"registrations"`
	Comments      []Comment `json:"comments"`
}

// Analytics aggregates event participation.
type Analytics struct {
	Participants []ParticipantCount `json:"participants"`
	ByType       map[string]int     `json:"by_type"`
	Ratio        OrganizerRatio     `json:"ratio"`
}

// ParticipantCount is registrations per event.
type ParticipantCount struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}

// OrganizerRatio splits events by organizer role.
type OrganizerRatio struct {
	Student int `json:"student"`
	Warden  int `json:"warden"`
}

var (
	ErrNotFound           = errors.New("event not found")
	ErrRegistrationClosed = errors.New("registration closed")
)

// Repository persists events with their registrations and comments.
type Repository interface {
	Insert(ctx context.Context, e Event) error
	Get(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	AddRegistration(ctx context.Context, eventID, studentID string) error
	AddComment(ctx context.Context, eventID string, c Comment) error
}
