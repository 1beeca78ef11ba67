package attendance

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Service manages QR sessions, geofenced check-ins and the daily
// finalize/lock cycle.
type Service struct {
	repo            Repository
	roster          Roster
	defaultDuration time.Duration
	now             func() time.Time
}

// NewService creates a service. defaultDuration applies when a session is
// created without an explicit duration.
func NewService(repo Repository, roster Roster, defaultDuration time.Duration) *Service {
	if defaultDuration <= 0 {
		defaultDuration = time.Hour
	}
	return &Service{
		repo:            repo,
		roster:          roster,
		defaultDuration: defaultDuration,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// DateKey formats a time as the calendar-day key.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// CreateSession opens a fresh QR session. forDate empty means today.
// Creating a second live session for the same day is permitted; GetActive
// then returns the earliest-created one.
func (s *Service) CreateSession(ctx context.Context, duration time.Duration, forDate string) (Session, error) {
	if duration <= 0 {
		duration = s.defaultDuration
	}
	now := s.now()
	if forDate == "" {
		forDate = DateKey(now)
	}
	session := Session{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		DateKey:   forDate,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}
	if err := s.repo.InsertSession(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// GetActiveSession returns the earliest-created unexpired, unlocked session,
// or nil when none is live.
func (s *Service) GetActiveSession(ctx context.Context) (*Session, error) {
	sessions, err := s.repo.ListSessions(ctx, "")
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, sess := range sessions {
		if !sess.Locked && now.Before(sess.ExpiresAt) {
			c := sess
			return &c, nil
		}
	}
	return nil, nil
}

// LockSessions locks every session for the date. Locked is terminal: a
// locked session never matches a token again.
func (s *Service) LockSessions(ctx context.Context, dateKey string) error {
	return s.repo.LockSessions(ctx, dateKey)
}

// MarkWithToken records the student present for the session's day. The
// location, when supplied, must fall inside the configured geofence.
func (s *Service) MarkWithToken(ctx context.Context, token, studentID string, point *Point) (Record, error) {
	sessions, err := s.repo.ListSessions(ctx, "")
	if err != nil {
		return Record{}, err
	}
	now := s.now()
	var session *Session
	for i := range sessions {
		if sessions[i].Token == token && !sessions[i].Locked {
			session = &sessions[i]
			break
		}
	}
	if session == nil {
		return Record{}, ErrInvalidOrExpiredQR
	}
	// A matching token past its expiry gets the more specific error.
	if !now.Before(session.ExpiresAt) {
		return Record{}, ErrQRExpired
	}
	if point != nil {
		ok, err := s.WithinFence(ctx, *point)
		if err != nil {
			return Record{}, err
		}
		if !ok {
			return Record{}, ErrOutsideGeofence
		}
	}
	rec := Record{
		DateKey:   session.DateKey,
		StudentID: studentID,
		Status:    StatusPresent,
		MarkedAt:  now,
		Location:  point,
	}
	if err := s.repo.UpsertRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// SetManualPresence is the warden override, with the same upsert-by-key
// semantics as a QR scan.
func (s *Service) SetManualPresence(ctx context.Context, dateKey, studentID string, present bool) (Record, error) {
	status := StatusAbsent
	if present {
		status = StatusPresent
	}
	rec := Record{
		DateKey:   dateKey,
		StudentID: studentID,
		Status:    status,
		MarkedAt:  s.now(),
	}
	if err := s.repo.UpsertRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// FinalizeAttendance inserts absent records for roster students with no
// record on the date, never overwriting existing records, then locks the
// date's sessions.
func (s *Service) FinalizeAttendance(ctx context.Context, dateKey string) error {
	ids, err := s.roster.StudentIDs(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	for _, id := range ids {
		existing, err := s.repo.GetRecord(ctx, dateKey, id)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		rec := Record{
			DateKey:   dateKey,
			StudentID: id,
			Status:    StatusAbsent,
			MarkedAt:  now,
		}
		if err := s.repo.UpsertRecord(ctx, rec); err != nil {
			return err
		}
	}
	return s.repo.LockSessions(ctx, dateKey)
}

// ListDay returns the date's records sorted by student id.
func (s *Service) ListDay(ctx context.Context, dateKey string) ([]Record, error) {
	recs, err := s.repo.ListRecords(ctx, dateKey)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].StudentID < recs[j].StudentID })
	return recs, nil
}

// WithinFence validates a point against the configured geofence. With no
// fence configured every point is allowed.
func (s *Service) WithinFence(ctx context.Context, p Point) (bool, error) {
	fence, err := s.repo.GetFence(ctx)
	if err != nil {
		return false, err
	}
	if fence == nil {
		return true, nil
	}
	return fence.Within(p), nil
}

// Fence returns the configured geofence, nil when unset.
func (s *Service) Fence(ctx context.Context) (*Fence, error) {
	return s.repo.GetFence(ctx)
}

// SetFence stores the geofence.
func (s *Service) SetFence(ctx context.Context, f Fence) error {
	return s.repo.SetFence(ctx, f)
}
