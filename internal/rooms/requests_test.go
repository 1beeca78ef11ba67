package rooms

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	room := mustCreateRoom(t, s, "A-101", 2)
	mustBook(t, s, "S1", room.ID)

	req, err := s.CreateLeaveRequest(ctx, "S1", "going home")
	if err != nil {
		t.Fatal(err)
	}
	if req.Status != StatusPending || req.ResolvedAt != nil {
		t.Fatalf("new request = %+v, want pending and unresolved", req)
	}

	approved, err := s.ApproveRequest(ctx, req.ID)
	if err != nil {
		t.Fatal(err)
	}
	if approved.Status != StatusApproved || approved.ResolvedAt == nil {
		t.Fatalf("approved request = %+v", approved)
	}
	if r, _ := s.FindStudentRoom(ctx, "S1"); r != nil {
		t.Fatalf("student still housed after approved leave")
	}

	// Resolved requests are terminal.
	if _, err := s.ApproveRequest(ctx, req.ID); !errors.Is(err, ErrRequestResolved) {
		t.Fatalf("re-approve err = %v, want ErrRequestResolved", err)
	}
	if _, err := s.RejectRequest(ctx, req.ID, ""); !errors.Is(err, ErrRequestResolved) {
		t.Fatalf("reject resolved err = %v, want ErrRequestResolved", err)
	}
}

func TestApproveChangeFailureLeavesRequestPending(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	from := mustCreateRoom(t, s, "A-101", 2)
	full := mustCreateRoom(t, s, "B-202", 1)
	mustBook(t, s, "S1", from.ID)
	mustBook(t, s, "S2", full.ID)

	req, err := s.CreateChangeRequest(ctx, "S1", full.ID, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.ApproveRequest(ctx, req.ID); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("approve into full room err = %v, want ErrRoomFull", err)
	}

	got, err := s.repo.GetRequest(ctx, req.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusPending {
		t.Fatalf("request status after failed approve = %s, want pending", got.Status)
	}
	// Registry untouched.
	if r, _ := s.FindStudentRoom(ctx, "S1"); r == nil || r.ID != from.ID {
		t.Fatalf("student moved despite failed approval")
	}
}

func TestApproveChangeMovesStudent(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	from := mustCreateRoom(t, s, "A-101", 2)
	to := mustCreateRoom(t, s, "B-202", 2)
	mustBook(t, s, "S1", from.ID)

	req, err := s.CreateChangeRequest(ctx, "S1", to.ID, "closer to mess")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ApproveRequest(ctx, req.ID); err != nil {
		t.Fatal(err)
	}
	if r, _ := s.FindStudentRoom(ctx, "S1"); r == nil || r.ID != to.ID {
		t.Fatalf("student not in target room after approved change")
	}
}

func TestRejectRequestOverwritesNote(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	req, err := s.CreateLeaveRequest(ctx, "S1", "original")
	if err != nil {
		t.Fatal(err)
	}
	rejected, err := s.RejectRequest(ctx, req.ID, "no leaves this week")
	if err != nil {
		t.Fatal(err)
	}
	if rejected.Status != StatusRejected || rejected.Note != "no leaves this week" {
		t.Fatalf("rejected request = %+v", rejected)
	}
}

func TestListRequestsNewestFirstAndFiltered(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	i := 0
	s.now = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Minute)
	}

	first, _ := s.CreateLeaveRequest(ctx, "S1", "")
	second, _ := s.CreateLeaveRequest(ctx, "S2", "")
	third, _ := s.CreateLeaveRequest(ctx, "S3", "")
	if _, err := s.RejectRequest(ctx, second.ID, ""); err != nil {
		t.Fatal(err)
	}

	all, err := s.ListRequests(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != third.ID || all[2].ID != first.ID {
		t.Fatalf("requests not newest-first: %+v", all)
	}

	pending, err := s.ListRequests(ctx, StatusPending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending count = %d, want 2", len(pending))
	}

	if _, err := s.ApproveRequest(ctx, "missing"); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("approve unknown err = %v, want ErrRequestNotFound", err)
	}
}

func TestMultiplePendingRequestsPermitted(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	room := mustCreateRoom(t, s, "A-101", 2)

	if _, err := s.CreateLeaveRequest(ctx, "S1", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateChangeRequest(ctx, "S1", room.ID, ""); err != nil {
		t.Fatal(err)
	}
	pending, _ := s.ListRequests(ctx, StatusPending)
	if len(pending) != 2 {
		t.Fatalf("pending count = %d, want both requests queued", len(pending))
	}
}
