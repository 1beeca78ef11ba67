package rooms

import (
	"context"
	"errors"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryRepository())
}

func mustCreateRoom(t *testing.T, s *Service, name string, capacity int) Room {
	t.Helper()
	room, err := s.CreateRoom(context.Background(), name, capacity)
	if err != nil {
		t.Fatalf("CreateRoom(%q): %v", name, err)
	}
	return room
}

func mustBook(t *testing.T, s *Service, studentID, roomID string) []string {
	t.Helper()
	_, roommates, err := s.BookRoom(context.Background(), studentID, roomID)
	if err != nil {
		t.Fatalf("BookRoom(%s, %s): %v", studentID, roomID, err)
	}
	return roommates
}

func TestBookingScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	a101 := mustCreateRoom(t, s, "A-101", 2)
	b202 := mustCreateRoom(t, s, "B-202", 2)

	mustBook(t, s, "S1", a101.ID)
	if seats, _ := s.AvailableSeats(ctx, a101.ID); seats != 1 {
		t.Fatalf("seats after first booking = %d, want 1", seats)
	}

	if _, _, err := s.BookRoom(ctx, "S1", b202.ID); !errors.Is(err, ErrAlreadyBooked) {
		t.Fatalf("double booking err = %v, want ErrAlreadyBooked", err)
	}

	roommates := mustBook(t, s, "S2", a101.ID)
	if len(roommates) != 1 || roommates[0] != "S1" {
		t.Fatalf("roommates = %v, want [S1]", roommates)
	}
	if seats, _ := s.AvailableSeats(ctx, a101.ID); seats != 0 {
		t.Fatalf("seats after second booking = %d, want 0", seats)
	}

	if _, _, err := s.BookRoom(ctx, "S3", a101.ID); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("booking full room err = %v, want ErrRoomFull", err)
	}
	if _, _, err := s.BookRoom(ctx, "S3", "missing"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("booking unknown room err = %v, want ErrRoomNotFound", err)
	}
}

func TestCapacityInvariantHolds(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	room := mustCreateRoom(t, s, "C-303", 3)
	for _, id := range []string{"S1", "S2", "S3"} {
		mustBook(t, s, id, room.ID)
	}
	all, err := s.ListRooms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range all {
		if len(r.Occupants) > r.Capacity {
			t.Fatalf("room %s has %d occupants over capacity %d", r.Name, len(r.Occupants), r.Capacity)
		}
	}
}

func TestSetRoomCapacityTruncatesEarliestKept(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	room := mustCreateRoom(t, s, "D-404", 3)
	mustBook(t, s, "S1", room.ID)
	mustBook(t, s, "S2", room.ID)
	mustBook(t, s, "S3", room.ID)

	updated, err := s.SetRoomCapacity(ctx, room.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(updated.Occupants), 2; got != want {
		t.Fatalf("occupants after shrink = %d, want %d", got, want)
	}
	if updated.Occupants[0] != "S1" || updated.Occupants[1] != "S2" {
		t.Fatalf("kept occupants = %v, want earliest-booked [S1 S2]", updated.Occupants)
	}
	// Dropped student is not relocated anywhere.
	if r, _ := s.FindStudentRoom(ctx, "S3"); r != nil {
		t.Fatalf("dropped student still housed in %s", r.Name)
	}

	if _, err := s.SetRoomCapacity(ctx, "missing", 2); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("capacity on unknown room err = %v, want ErrRoomNotFound", err)
	}
}

func TestSetRoomCapacityFloorsToOne(t *testing.T) {
	s := newTestService(t)
	room := mustCreateRoom(t, s, "E-505", 2)
	updated, err := s.SetRoomCapacity(context.Background(), room.ID, -4)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Capacity != 1 {
		t.Fatalf("capacity = %d, want floor of 1", updated.Capacity)
	}
}

func TestCreateRoomDefaults(t *testing.T) {
	s := newTestService(t)
	room := mustCreateRoom(t, s, "  F-606  ", 0)
	if room.Name != "F-606" {
		t.Fatalf("name = %q, want trimmed", room.Name)
	}
	if room.Capacity != 2 {
		t.Fatalf("capacity = %d, want default 2", room.Capacity)
	}
}

func TestAvailableSeatsUnknownRoom(t *testing.T) {
	s := newTestService(t)
	seats, err := s.AvailableSeats(context.Background(), "missing")
	if err != nil || seats != 0 {
		t.Fatalf("AvailableSeats(missing) = %d, %v; want 0, nil", seats, err)
	}
}

func TestUnbookStudentIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	room := mustCreateRoom(t, s, "G-707", 2)
	mustBook(t, s, "S1", room.ID)

	if err := s.UnbookStudent(ctx, "S1"); err != nil {
		t.Fatal(err)
	}
	if r, _ := s.FindStudentRoom(ctx, "S1"); r != nil {
		t.Fatalf("student still found in %s after unbook", r.Name)
	}
	// Second removal is a no-op.
	if err := s.UnbookStudent(ctx, "S1"); err != nil {
		t.Fatalf("second unbook: %v", err)
	}
}

func TestMoveStudent(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	from := mustCreateRoom(t, s, "H-808", 2)
	to := mustCreateRoom(t, s, "H-809", 1)
	mustBook(t, s, "S1", from.ID)
	mustBook(t, s, "S2", to.ID)

	if err := s.MoveStudent(ctx, "S1", to.ID); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("move into full room err = %v, want ErrRoomFull", err)
	}
	if err := s.MoveStudent(ctx, "S9", to.ID); !errors.Is(err, ErrNoCurrentRoom) {
		t.Fatalf("move unhoused student err = %v, want ErrNoCurrentRoom", err)
	}
	if err := s.MoveStudent(ctx, "S1", "missing"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("move to unknown room err = %v, want ErrRoomNotFound", err)
	}

	if err := s.UnbookStudent(ctx, "S2"); err != nil {
		t.Fatal(err)
	}
	if err := s.MoveStudent(ctx, "S1", to.ID); err != nil {
		t.Fatalf("move: %v", err)
	}
	got, _ := s.FindStudentRoom(ctx, "S1")
	if got == nil || got.ID != to.ID {
		t.Fatalf("student not in target room after move")
	}
	// Old seat freed.
	if seats, _ := s.AvailableSeats(ctx, from.ID); seats != 2 {
		t.Fatalf("old room seats = %d, want 2", seats)
	}
}

func TestResetAllBookings(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	a := mustCreateRoom(t, s, "I-101", 2)
	b := mustCreateRoom(t, s, "I-102", 2)
	mustBook(t, s, "S1", a.ID)
	mustBook(t, s, "S2", b.ID)

	if err := s.ResetAllBookings(ctx); err != nil {
		t.Fatal(err)
	}
	all, _ := s.ListRooms(ctx)
	for _, r := range all {
		if len(r.Occupants) != 0 {
			t.Fatalf("room %s still has occupants %v after reset", r.Name, r.Occupants)
		}
	}
}

func TestListRoomsSortedByName(t *testing.T) {
	s := newTestService(t)
	mustCreateRoom(t, s, "b-2", 2)
	mustCreateRoom(t, s, "A-1", 2)
	mustCreateRoom(t, s, "C-3", 2)

	all, err := s.ListRooms(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A-1", "b-2", "C-3"}
	for i, name := range want {
		if all[i].Name != name {
			t.Fatalf("rooms[%d].Name = %q, want %q", i, all[i].Name, name)
		}
	}
}
