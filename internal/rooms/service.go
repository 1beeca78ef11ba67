package rooms

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service holds the room registry and request queue logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// ListRooms returns all rooms sorted by name ascending.
func (s *Service) ListRooms(ctx context.Context) ([]Room, error) {
	all, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name)
	})
	return all, nil
}

// CreateRoom registers a new empty room. Capacity defaults to 2 and is
// floored to 1.
func (s *Service) CreateRoom(ctx context.Context, name string, capacity int) (Room, error) {
	if capacity == 0 {
		capacity = 2
	}
	if capacity < 1 {
		capacity = 1
	}
	room := Room{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Capacity:  capacity,
		CreatedAt: s.now(),
	}
	if err := s.repo.InsertRoom(ctx, room); err != nil {
		return Room{}, err
	}
	return room, nil
}

// DeleteRoom removes the room and its occupant assignments. No relocation of
// occupants happens.
func (s *Service) DeleteRoom(ctx context.Context, id string) error {
	return s.repo.DeleteRoom(ctx, id)
}

// SetRoomCapacity adjusts capacity, truncating the occupant list to the
// earliest-booked occupants when shrinking below current occupancy.
func (s *Service) SetRoomCapacity(ctx context.Context, id string, capacity int) (Room, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return Room{}, err
	}
	if room == nil {
		return Room{}, ErrRoomNotFound
	}
	if capacity < 1 {
		capacity = 1
	}
	room.Capacity = capacity
	if len(room.Occupants) > capacity {
		room.Occupants = room.Occupants[:capacity]
	}
	room.FilledCount = len(room.Occupants)
	if err := s.repo.UpdateRoom(ctx, *room); err != nil {
		return Room{}, err
	}
	return *room, nil
}

// AvailableSeats reports free seats; unknown rooms report zero.
func (s *Service) AvailableSeats(ctx context.Context, id string) (int, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return 0, err
	}
	if room == nil {
		return 0, nil
	}
	free := room.Capacity - len(room.Occupants)
	if free < 0 {
		free = 0
	}
	return free, nil
}

// FindStudentRoom returns the room housing the student, or nil.
func (s *Service) FindStudentRoom(ctx context.Context, studentID string) (*Room, error) {
	return s.repo.FindRoomByOccupant(ctx, studentID)
}

// BookRoom assigns the student a seat. A student may occupy at most one room
// across the whole registry.
func (s *Service) BookRoom(ctx context.Context, studentID, roomID string) (Room, []string, error) {
	current, err := s.repo.FindRoomByOccupant(ctx, studentID)
	if err != nil {
		return Room{}, nil, err
	}
	if current != nil {
		return Room{}, nil, ErrAlreadyBooked
	}
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return Room{}, nil, err
	}
	if room == nil {
		return Room{}, nil, ErrRoomNotFound
	}
	if len(room.Occupants) >= room.Capacity {
		return Room{}, nil, ErrRoomFull
	}
	roommates := append([]string(nil), room.Occupants...)
	room.Occupants = append(room.Occupants, studentID)
	room.FilledCount = len(room.Occupants)
	if err := s.repo.UpdateRoom(ctx, *room); err != nil {
		return Room{}, nil, err
	}
	return *room, roommates, nil
}

// UnbookStudent removes the student from whichever room holds them. A no-op
// when the student is not housed.
func (s *Service) UnbookStudent(ctx context.Context, studentID string) error {
	room, err := s.repo.FindRoomByOccupant(ctx, studentID)
	if err != nil {
		return err
	}
	if room == nil {
		return nil
	}
	room.Occupants = remove(room.Occupants, studentID)
	room.FilledCount = len(room.Occupants)
	return s.repo.UpdateRoom(ctx, *room)
}

// MoveStudent relocates the student to the target room, updating both rooms
// in one write.
func (s *Service) MoveStudent(ctx context.Context, studentID, targetRoomID string) error {
	target, err := s.repo.GetRoom(ctx, targetRoomID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrRoomNotFound
	}
	current, err := s.repo.FindRoomByOccupant(ctx, studentID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNoCurrentRoom
	}
	if current.ID == target.ID {
		return nil
	}
	if len(target.Occupants) >= target.Capacity {
		return ErrRoomFull
	}
	current.Occupants = remove(current.Occupants, studentID)
	current.FilledCount = len(current.Occupants)
	target.Occupants = append(target.Occupants, studentID)
	target.FilledCount = len(target.Occupants)
	return s.repo.UpdateRooms(ctx, []Room{*current, *target})
}

// ResetAllBookings clears every room's occupant list.
func (s *Service) ResetAllBookings(ctx context.Context) error {
	all, err := s.repo.ListRooms(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		all[i].Occupants = nil
		all[i].FilledCount = 0
	}
	return s.repo.UpdateRooms(ctx, all)
}

// ReconcileFill recomputes the denormalized fill counter for one room.
func (s *Service) ReconcileFill(ctx context.Context, roomID string) error {
	return s.repo.ReconcileFill(ctx, roomID)
}

// ListRequests returns requests newest first, optionally filtered by status.
func (s *Service) ListRequests(ctx context.Context, status RequestStatus) ([]Request, error) {
	all, err := s.repo.ListRequests(ctx, status)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// CreateLeaveRequest queues a pending leave request. Multiple pending
// requests per student are permitted.
func (s *Service) CreateLeaveRequest(ctx context.Context, studentID, note string) (Request, error) {
	return s.createRequest(ctx, RequestLeave, studentID, "", note)
}

// CreateChangeRequest queues a pending room-change request.
func (s *Service) CreateChangeRequest(ctx context.Context, studentID, targetRoomID, note string) (Request, error) {
	if targetRoomID == "" {
		return Request{}, ErrRoomNotFound
	}
	return s.createRequest(ctx, RequestChange, studentID, targetRoomID, note)
}

func (s *Service) createRequest(ctx context.Context, typ RequestType, studentID, targetRoomID, note string) (Request, error) {
	req := Request{
		ID:           uuid.NewString(),
		Type:         typ,
		StudentID:    studentID,
		TargetRoomID: targetRoomID,
		Status:       StatusPending,
		Note:         note,
		CreatedAt:    s.now(),
	}
	if err := s.repo.InsertRequest(ctx, req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// ApproveRequest applies the registry mutation, then marks the request
// approved. When the mutation fails the request stays pending and the
// failure is returned.
func (s *Service) ApproveRequest(ctx context.Context, id string) (Request, error) {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if req == nil {
		return Request{}, ErrRequestNotFound
	}
	if req.Status != StatusPending {
		return Request{}, ErrRequestResolved
	}
	switch req.Type {
	case RequestLeave:
		if err := s.UnbookStudent(ctx, req.StudentID); err != nil {
			return Request{}, err
		}
	case RequestChange:
		if err := s.MoveStudent(ctx, req.StudentID, req.TargetRoomID); err != nil {
			return Request{}, err
		}
	}
	resolved := s.now()
	req.Status = StatusApproved
	req.ResolvedAt = &resolved
	if err := s.repo.UpdateRequest(ctx, *req); err != nil {
		return Request{}, err
	}
	return *req, nil
}

// RejectRequest resolves the request as rejected, optionally replacing the
// note.
func (s *Service) RejectRequest(ctx context.Context, id, note string) (Request, error) {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if req == nil {
		return Request{}, ErrRequestNotFound
	}
	if req.Status != StatusPending {
		return Request{}, ErrRequestResolved
	}
	resolved := s.now()
	req.Status = StatusRejected
	req.ResolvedAt = &resolved
	if note != "" {
		req.Note = note
	}
	if err := s.repo.UpdateRequest(ctx, *req); err != nil {
		return Request{}, err
	}
	return *req, nil
}

func remove(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
