package attendance

import (
	"context"
	"errors"
	"time"
)

// DateKeyLayout is the calendar-day key format for sessions and records.
const DateKeyLayout = "2006-01-02"

// Session is a time-boxed QR attendance window. Expiry is computed from
// ExpiresAt; locked is an explicit terminal state.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	DateKey   string    `json:"date_key"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Locked    bool      `json:"locked"`
}

// Status of a daily attendance record.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Record is one student's attendance for one day, keyed (DateKey, StudentID)
// with last-write-wins upserts.
type Record struct {
	DateKey   string    `json:"date_key"`
	StudentID string    `json:"student_id"`
	Status    Status    `json:"status"`
	MarkedAt  time.Time `json:"marked_at"`
	Location  *Point    `json:"location,omitempty"`
}

// Fence is the circular allowed region for marking attendance.
type Fence struct {
	Center  Point   `json:"center"`
	RadiusM float64 `json:"radius_m"`
}

var (
	ErrInvalidOrExpiredQR = errors.New("invalid or expired QR token")
	ErrQRExpired          = errors.New("QR session expired")
	ErrOutsideGeofence    = errors.New("outside geofence")
)

// Repository persists sessions, records and the geofence setting.
type Repository interface {
	InsertSession(ctx context.Context, s Session) error
	// ListSessions returns sessions ordered by creation time; an empty
	// dateKey lists every session.
	ListSessions(ctx context.Context, dateKey string) ([]Session, error)
	LockSessions(ctx context.Context, dateKey string) error

	UpsertRecord(ctx context.Context, rec Record) error
	GetRecord(ctx context.Context, dateKey, studentID string) (*Record, error)
	ListRecords(ctx context.Context, dateKey string) ([]Record, error)

	GetFence(ctx context.Context) (*Fence, error)
	SetFence(ctx context.Context, f Fence) error
}

// Roster supplies the student ids finalize fans out over.
type Roster interface {
	StudentIDs(ctx context.Context) ([]string, error)
}
