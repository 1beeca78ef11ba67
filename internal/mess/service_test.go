package mess

import (
	"context"
	"errors"
	"testing"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository())
}

func TestVoteWeekly(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	poll, err := s.OpenWeeklyPoll(ctx, "2026-03-02", []string{"north", "south", "continental"})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.VoteWeekly(ctx, poll.ID, "S1", "monday", "lunch", "south"); err != nil {
		t.Fatal(err)
	}
	// Last write wins for the same (student, day, meal).
	if err := s.VoteWeekly(ctx, poll.ID, "S1", "monday", "lunch", "north"); err != nil {
		t.Fatal(err)
	}
	if err := s.VoteWeekly(ctx, poll.ID, "S2", "monday", "lunch", "north"); err != nil {
		t.Fatal(err)
	}

	tally, err := s.WeeklyTally(ctx, poll.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got := tally["monday/lunch"]["north"]; got != 2 {
		t.Fatalf("north votes = %d, want 2", got)
	}
	if got := tally["monday/lunch"]["south"]; got != 0 {
		t.Fatalf("south votes = %d, want overwritten to 0", got)
	}
}

func TestVoteWeeklyValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	poll, _ := s.OpenWeeklyPoll(ctx, "2026-03-02", []string{"north"})

	tests := []struct {
		name             string
		day, meal, opt   string
		want             error
	}{
		{"unknown option", "monday", "lunch", "thai", ErrInvalidOption},
		{"unknown day", "funday", "lunch", "north", ErrInvalidOption},
		{"unknown meal", "monday", "supper", "north", ErrInvalidOption},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.VoteWeekly(ctx, poll.ID, "S1", tc.day, tc.meal, tc.opt); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	if err := s.VoteWeekly(ctx, "missing", "S1", "monday", "lunch", "north"); !errors.Is(err, ErrPollNotFound) {
		t.Fatalf("unknown poll err = %v, want ErrPollNotFound", err)
	}

	if err := s.CloseWeeklyPoll(ctx, poll.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.VoteWeekly(ctx, poll.ID, "S1", "monday", "lunch", "north"); !errors.Is(err, ErrPollClosed) {
		t.Fatalf("closed poll err = %v, want ErrPollClosed", err)
	}
	if active, _ := s.ActiveWeekly(ctx); active != nil {
		t.Fatalf("active weekly after close = %+v, want nil", active)
	}
}

func TestDailyPolls(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	polls, err := s.OpenDailyPolls(ctx, "2026-03-02", []string{"lunch", "dinner"})
	if err != nil {
		t.Fatal(err)
	}
	if len(polls) != 2 {
		t.Fatalf("polls = %d, want 2", len(polls))
	}
	lunch := polls[0]

	if err := s.RespondDaily(ctx, lunch.ID, "S1", ChoiceEating); err != nil {
		t.Fatal(err)
	}
	if err := s.RespondDaily(ctx, lunch.ID, "S2", ChoiceSkip); err != nil {
		t.Fatal(err)
	}
	// Change of mind replaces the earlier answer.
	if err := s.RespondDaily(ctx, lunch.ID, "S1", ChoiceSkip); err != nil {
		t.Fatal(err)
	}

	hc, err := s.DailyHeadcount(ctx, lunch.ID)
	if err != nil {
		t.Fatal(err)
	}
	if hc.Eating != 0 || hc.Skipped != 2 {
		t.Fatalf("headcount = %+v", hc)
	}

	skips, err := s.SkippedMealsCount(ctx, "S1")
	if err != nil || skips != 1 {
		t.Fatalf("skips = %d, %v; want 1", skips, err)
	}

	if err := s.RespondDaily(ctx, lunch.ID, "S1", "maybe"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("bad choice err = %v, want ErrInvalidOption", err)
	}

	if err := s.CloseDailyPolls(ctx, "2026-03-02"); err != nil {
		t.Fatal(err)
	}
	if err := s.RespondDaily(ctx, lunch.ID, "S3", ChoiceEating); !errors.Is(err, ErrPollClosed) {
		t.Fatalf("closed daily err = %v, want ErrPollClosed", err)
	}
	if active, _ := s.ActiveDaily(ctx, "2026-03-02"); len(active) != 0 {
		t.Fatalf("active daily after close = %v", active)
	}
}

func TestOpenDailyPollsRejectsUnknownSlot(t *testing.T) {
	s := newTestService()
	if _, err := s.OpenDailyPolls(context.Background(), "2026-03-02", []string{"brunch"}); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("unknown slot err = %v, want ErrInvalidOption", err)
	}
}
