package rooms

import (
	"context"
	"errors"
	"time"
)

// Room is a hostel room with an ordered occupant list. FilledCount is the
// denormalized counter from the legacy schema; the worker reconciles it
// against the occupant rows.
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	FilledCount int       `json:"filled_count"`
	Occupants   []string  `json:"occupants"`
	CreatedAt   time.Time `json:"created_at"`
}

// RequestType distinguishes leave from room-change requests.
type RequestType string

const (
	RequestLeave  RequestType = "leave"
	RequestChange RequestType = "change"
)

// RequestStatus is the lifecycle state of a request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Request is a student's leave or room-change request. Resolved requests are
// terminal; only a rejection note may be attached afterwards.
type Request struct {
	ID           string        `json:"id"`
	Type         RequestType   `json:"type"`
	StudentID    string        `json:"student_id"`
	TargetRoomID string        `json:"target_room_id,omitempty"`
	Status       RequestStatus `json:"status"`
	Note         string        `json:"note,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	ResolvedAt   *time.Time    `json:"resolved_at,omitempty"`
}

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrAlreadyBooked   = errors.New("student already has a room")
	ErrRoomFull        = errors.New("room is full")
	ErrNoCurrentRoom   = errors.New("student has no current room")
	ErrRequestResolved = errors.New("request already resolved")
)

// Repository persists rooms and requests. Get lookups return (nil, nil) when
// the id is unknown.
type Repository interface {
	ListRooms(ctx context.Context) ([]Room, error)
	GetRoom(ctx context.Context, id string) (*Room, error)
	InsertRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	UpdateRooms(ctx context.Context, rooms []Room) error
	DeleteRoom(ctx context.Context, id string) error
	FindRoomByOccupant(ctx context.Context, studentID string) (*Room, error)
	ReconcileFill(ctx context.Context, roomID string) error

	ListRequests(ctx context.Context, status RequestStatus) ([]Request, error)
	GetRequest(ctx context.Context, id string) (*Request, error)
	InsertRequest(ctx context.Context, req Request) error
	UpdateRequest(ctx context.Context, req Request) error
}
