package complaints

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

func TestCreateValidatesCategory(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	c, err := s.Create(ctx, "ST-1", "  Mess ", "cold food again")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Category != "mess" || c.Status != StatusOpen {
		t.Fatalf("created = %+v, want normalized category and open status", c)
	}

	if _, err := s.Create(ctx, "ST-1", "gossip", "..."); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("unknown category err = %v, want ErrInvalidCategory", err)
	}
}

func TestFeedNewestFirst(t *testing.T) {
	s, now := newTestService()
	ctx := context.Background()

	first, _ := s.Create(ctx, "", "noise", "loud corridor")
	*now = now.Add(time.Minute)
	second, _ := s.Create(ctx, "ST-2", "maintenance", "broken fan")

	feed, err := s.ListFeed(ctx)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed) != 2 || feed[0].ID != second.ID || feed[1].ID != first.ID {
		t.Fatalf("feed order = %v, want newest first", feed)
	}
	if feed[1].StudentID != "" {
		t.Fatalf("anonymous complaint kept student id %q", feed[1].StudentID)
	}
}

func TestUpvoteIdempotent(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	c, _ := s.Create(ctx, "ST-1", "cleanliness", "dusty common room")

	if err := s.Upvote(ctx, c.ID, "ST-2"); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if err := s.Upvote(ctx, c.ID, "ST-2"); err != nil {
		t.Fatalf("repeat upvote: %v", err)
	}

	got, _ := s.repo.Get(ctx, c.ID)
	if len(got.Upvotes) != 1 {
		t.Fatalf("upvotes = %v, want one entry", got.Upvotes)
	}

	voted, err := s.HasUpvoted(ctx, c.ID, "ST-2")
	if err != nil || !voted {
		t.Fatalf("HasUpvoted = %v, %v, want true", voted, err)
	}
	voted, err = s.HasUpvoted(ctx, c.ID, "ST-3")
	if err != nil || voted {
		t.Fatalf("HasUpvoted for non-voter = %v, %v, want false", voted, err)
	}

	if err := s.Upvote(ctx, "missing", "ST-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("upvote unknown complaint err = %v, want ErrNotFound", err)
	}
}

func TestResolve(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	c, _ := s.Create(ctx, "ST-1", "security", "broken gate lock")
	if err := s.Resolve(ctx, c.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got, _ := s.repo.Get(ctx, c.ID)
	if got.Status != StatusResolved {
		t.Fatalf("status = %q, want resolved", got.Status)
	}

	if err := s.Resolve(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("resolve unknown err = %v, want ErrNotFound", err)
	}
}
