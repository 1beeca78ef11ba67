package mess

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service runs the weekly menu poll and the daily meal headcounts.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// OpenWeeklyPoll publishes a new open weekly poll with the given menu
// options.
func (s *Service) OpenWeeklyPoll(ctx context.Context, weekOf string, options []string) (WeeklyPoll, error) {
	if len(options) == 0 {
		return WeeklyPoll{}, ErrInvalidOption
	}
	p := WeeklyPoll{
		ID:        uuid.NewString(),
		WeekOf:    weekOf,
		Open:      true,
		Options:   append([]string(nil), options...),
		CreatedAt: s.now(),
	}
	if err := s.repo.InsertWeekly(ctx, p); err != nil {
		return WeeklyPoll{}, err
	}
	return p, nil
}

// CloseWeeklyPoll closes voting.
func (s *Service) CloseWeeklyPoll(ctx context.Context, id string) error {
	p, err := s.repo.GetWeekly(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPollNotFound
	}
	p.Open = false
	return s.repo.UpdateWeekly(ctx, *p)
}

// ActiveWeekly returns the first open weekly poll in storage order, or nil.
func (s *Service) ActiveWeekly(ctx context.Context) (*WeeklyPoll, error) {
	all, err := s.repo.ListWeekly(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.Open {
			c := p
			return &c, nil
		}
	}
	return nil, nil
}

// VoteWeekly records a student's menu pick for one (day, meal); a later vote
// for the same key replaces the earlier one.
func (s *Service) VoteWeekly(ctx context.Context, pollID, studentID, day, meal, option string) error {
	p, err := s.repo.GetWeekly(ctx, pollID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPollNotFound
	}
	if !p.Open {
		return ErrPollClosed
	}
	if !contains(WeekDays, day) || !contains(Meals, meal) || !contains(p.Options, option) {
		return ErrInvalidOption
	}
	return s.repo.UpsertWeeklyVote(ctx, WeeklyVote{
		PollID:    pollID,
		StudentID: studentID,
		Day:       day,
		Meal:      meal,
		Option:    option,
	})
}

// WeeklyTally counts votes per (day, meal, option).
func (s *Service) WeeklyTally(ctx context.Context, pollID string) (map[string]map[string]int, error) {
	p, err := s.repo.GetWeekly(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPollNotFound
	}
	votes, err := s.repo.ListWeeklyVotes(ctx, pollID)
	if err != nil {
		return nil, err
	}
	tally := make(map[string]map[string]int)
	for _, v := range votes {
		key := v.Day + "/" + v.Meal
		if tally[key] == nil {
			tally[key] = make(map[string]int)
		}
		tally[key][v.Option]++
	}
	return tally, nil
}

// OpenDailyPolls opens a headcount poll per slot for the date. Unknown slots
// are rejected.
func (s *Service) OpenDailyPolls(ctx context.Context, dateKey string, slots []string) ([]DailyPoll, error) {
	if len(slots) == 0 {
		slots = Meals
	}
	for _, slot := range slots {
		if !contains(Meals, slot) {
			return nil, ErrInvalidOption
		}
	}
	var out []DailyPoll
	for _, slot := range slots {
		p := DailyPoll{ID: uuid.NewString(), DateKey: dateKey, Slot: slot, Open: true}
		if err := s.repo.InsertDaily(ctx, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// CloseDailyPolls closes every poll for the date.
func (s *Service) CloseDailyPolls(ctx context.Context, dateKey string) error {
	all, err := s.repo.ListDaily(ctx, dateKey)
	if err != nil {
		return err
	}
	for _, p := range all {
		if !p.Open {
			continue
		}
		p.Open = false
		if err := s.repo.UpdateDaily(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// ActiveDaily returns the date's open polls.
func (s *Service) ActiveDaily(ctx context.Context, dateKey string) ([]DailyPoll, error) {
	all, err := s.repo.ListDaily(ctx, dateKey)
	if err != nil {
		return nil, err
	}
	var out []DailyPoll
	for _, p := range all {
		if p.Open {
			out = append(out, p)
		}
	}
	return out, nil
}

// RespondDaily records eating/skip for a student, last write wins.
func (s *Service) RespondDaily(ctx context.Context, pollID, studentID, choice string) error {
	p, err := s.repo.GetDaily(ctx, pollID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPollNotFound
	}
	if !p.Open {
		return ErrPollClosed
	}
	if choice != ChoiceEating && choice != ChoiceSkip {
		return ErrInvalidOption
	}
	return s.repo.UpsertDailyResponse(ctx, DailyResponse{PollID: pollID, StudentID: studentID, Choice: choice})
}

// DailyHeadcount summarizes a poll's responses.
func (s *Service) DailyHeadcount(ctx context.Context, pollID string) (Headcount, error) {
	p, err := s.repo.GetDaily(ctx, pollID)
	if err != nil {
		return Headcount{}, err
	}
	if p == nil {
		return Headcount{}, ErrPollNotFound
	}
	responses, err := s.repo.ListDailyResponses(ctx, pollID)
	if err != nil {
		return Headcount{}, err
	}
	var hc Headcount
	for _, r := range responses {
		if r.Choice == ChoiceEating {
			hc.Eating++
		} else {
			hc.Skipped++
		}
	}
	return hc, nil
}

// SkippedMealsCount counts how many meals the student has skipped across all
// daily polls.
func (s *Service) SkippedMealsCount(ctx context.Context, studentID string) (int, error) {
	return s.repo.CountSkips(ctx, studentID)
}
