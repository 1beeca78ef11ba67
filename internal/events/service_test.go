package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService() (*Service, *time.Time) {
	s := NewService(NewMemoryRepository())
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestProposalLifecycle(t *testing.T) {
	s, now := newTestService()
	ctx := context.Background()

	proposal, err := s.Create(ctx, NewEvent{
		Name:     "Tech Fest",
		Type:     "cultural",
		StartsAt: now.Add(48 * time.Hour),
	}, OrganizerStudent, "ST-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if proposal.Status != StatusPending {
		t.Fatalf("student proposal status = %q, want pending", proposal.Status)
	}

	official, err := s.Create(ctx, NewEvent{
		Name:     "Orientation",
		Type:     "official",
		StartsAt: now.Add(24 * time.Hour),
	}, OrganizerWarden, "warden")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if official.Status != StatusApproved {
		t.Fatalf("warden event status = %q, want approved", official.Status)
	}

	pending, err := s.ListPendingProposals(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != proposal.ID {
		t.Fatalf("pending = %v, want only the student proposal", pending)
	}

	if err := s.Approve(ctx, proposal.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	pending, _ = s.ListPendingProposals(ctx)
	if len(pending) != 0 {
		t.Fatalf("pending after approval = %d, want 0", len(pending))
	}
}

func TestRegisterRequiresApproval(t *testing.T) {
	s, now := newTestService()
	ctx := context.Background()

	e, _ := s.Create(ctx, NewEvent{Name: "Hackathon", StartsAt: now.Add(time.Hour)}, OrganizerStudent, "ST-1")

	if err := s.Register(ctx, e.ID, "ST-2"); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("register on pending event err = %v, want ErrRegistrationClosed", err)
	}

	if err := s.Approve(ctx, e.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := s.Register(ctx, e.ID, "ST-2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Register(ctx, e.ID, "ST-2"); err != nil {
		t.Fatalf("repeat register: %v", err)
	}

	got, _ := s.repo.Get(ctx, e.ID)
	if len(got.Registrations) != 1 {
		t.Fatalf("registrations = %v, want exactly one entry", got.Registrations)
	}

	if err := s.Register(ctx, "missing", "ST-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("register unknown event err = %v, want ErrNotFound", err)
	}
}

func TestUpcomingAndPastSplit(t *testing.T) {
	s, now := newTestService()
	ctx := context.Background()

	past, _ := s.Create(ctx, NewEvent{Name: "Old", StartsAt: now.Add(-time.Hour)}, OrganizerWarden, "warden")
	future, _ := s.Create(ctx, NewEvent{Name: "New", StartsAt: now.Add(time.Hour)}, OrganizerWarden, "warden")
	rejected, _ := s.Create(ctx, NewEvent{Name: "Nope", StartsAt: now.Add(time.Hour)}, OrganizerStudent, "ST-1")
	if err := s.Reject(ctx, rejected.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	up, err := s.ListUpcoming(ctx)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(up) != 1 || up[0].ID != future.ID {
		t.Fatalf("upcoming = %v, want only the future approved event", up)
	}

	old, err := s.ListPast(ctx)
	if err != nil {
		t.Fatalf("past: %v", err)
	}
	if len(old) != 1 || old[0].ID != past.ID {
		t.Fatalf("past = %v, want only the started event", old)
	}
}

func TestCommentsAndAnalytics(t *testing.T) {
	s, now := newTestService()
	ctx := context.Background()

	a, _ := s.Create(ctx, NewEvent{Name: "Fest", Type: "cultural", StartsAt: now.Add(time.Hour)}, OrganizerWarden, "warden")
	b, _ := s.Create(ctx, NewEvent{Name: "Talk", Type: "academic", StartsAt: now.Add(2 * time.Hour)}, OrganizerStudent, "ST-1")
	_ = s.Approve(ctx, b.ID)

	if _, err := s.AddComment(ctx, a.ID, OrganizerStudent, "  count me in  "); err != nil {
		t.Fatalf("comment: %v", err)
	}
	got, _ := s.repo.Get(ctx, a.ID)
	if len(got.Comments) != 1 || got.Comments[0].Text != "count me in" {
		t.Fatalf("comments = %v, want one trimmed comment", got.Comments)
	}
	if _, err := s.AddComment(ctx, "missing", OrganizerStudent, "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("comment on unknown event err = %v, want ErrNotFound", err)
	}

	_ = s.Register(ctx, a.ID, "ST-1")
	_ = s.Register(ctx, a.ID, "ST-2")
	_ = s.Register(ctx, b.ID, "ST-2")

	stats, err := s.BuildAnalytics(ctx)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	counts := map[string]int{}
	for _, p := range stats.Participants {
		counts[p.Name] = p.Count
	}
	if counts["Fest"] != 2 || counts["Talk"] != 1 {
		t.Fatalf("participant counts = %v", counts)
	}
	if stats.ByType["cultural"] != 1 || stats.ByType["academic"] != 1 {
		t.Fatalf("by type = %v", stats.ByType)
	}
	if stats.Ratio.Student != 1 || stats.Ratio.Warden != 1 {
		t.Fatalf("ratio = %+v", stats.Ratio)
	}
}
