package events

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewEvent is the creation payload.
type NewEvent struct {
	Name        string
	Description string
	Type        string
	StartsAt    time.Time
	Venue       string
	Expected    *int
	Budget      *float64
	PosterURL   string
}

// Service manages the event proposal lifecycle and registrations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create records an event. Student proposals start pending; warden events
// start approved.
func (s *Service) Create(ctx context.Context, payload NewEvent, organizer Organizer, organizerName string) (Event, error) {
	status := StatusApproved
	if organizer == OrganizerStudent {
		status = StatusPending
	}
	e := Event{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(payload.Name),
		Description:   strings.TrimSpace(payload.Description),
		Organizer:     organizer,
		OrganizerName: organizerName,
		Type:          payload.Type,
		StartsAt:      payload.StartsAt,
		Venue:         payload.Venue,
		Expected:      payload.Expected,
		Budget:        payload.Budget,
		PosterURL:     payload.PosterURL,
		Status:        status,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// List returns all events by start time ascending.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].StartsAt.Before(all[j].StartsAt) })
	return all, nil
}

// ListUpcoming returns non-rejected events starting now or later.
func (s *Service) ListUpcoming(ctx context.Context) ([]Event, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := all[:0]
	for _, e := range all {
		if e.Status != StatusRejected && !e.StartsAt.Before(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListPast returns events that have started.
func (s *Service) ListPast(ctx context.Context) ([]Event, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := all[:0]
	for _, e := range all {
		if e.StartsAt.Before(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListPendingProposals returns student proposals awaiting the warden.
func (s *Service) ListPendingProposals(ctx context.Context) ([]Event, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, e := range all {
		if e.Status == StatusPending {
			out = append(out, e)
		}
	}
	return out, nil
}

// Approve marks a proposal approved.
func (s *Service) Approve(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusApproved)
}

// Reject marks a proposal rejected.
func (s *Service) Reject(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusRejected)
}

// Complete marks an event completed.
func (s *Service) Complete(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusCompleted)
}

// Register signs a student up for an approved event. Idempotent per
// student.
func (s *Service) Register(ctx context.Context, eventID, studentID string) error {
	e, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrNotFound
	}
	if e.Status != StatusApproved {
		return ErrRegistrationClosed
	}
	return s.repo.AddRegistration(ctx, eventID, studentID)
}

// AddComment appends to the event's discussion.
func (s *Service) AddComment(ctx context.Context, eventID string, author Organizer, text string) (Comment, error) {
	e, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return Comment{}, err
	}
	if e == nil {
		return Comment{}, ErrNotFound
	}
	c := Comment{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      strings.TrimSpace(text),
		CreatedAt: s.now(),
	}
	if err := s.repo.AddComment(ctx, eventID, c); err != nil {
		return Comment{}, err
	}
	return c, nil
}

// BuildAnalytics aggregates participation across all events.
func (s *Service) BuildAnalytics(ctx context.Context) (Analytics, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Analytics{}, err
	}
	a := Analytics{ByType: make(map[string]int)}
	for _, e := range all {
		a.Participants = append(a.Participants, ParticipantCount{
			EventID: e.ID,
			Name:    e.Name,
			Count:   len(e.Registrations),
		})
		a.ByType[e.Type]++
		switch e.Organizer {
		case OrganizerStudent:
			a.Ratio.Student++
		case OrganizerWarden:
			a.Ratio.Warden++
		}
	}
	return a, nil
}
