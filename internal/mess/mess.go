package mess

import (
	"context"
	"errors"
	"time"
)

// WeekDays are the voting tabs of the weekly menu poll.
var WeekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Meals are the three meal slots.
var Meals = []string{"breakfast", "lunch", "dinner"}

// Daily poll choices.
const (
	ChoiceEating = "eating"
	ChoiceSkip   = "skip"
)

// WeeklyPoll asks students to pick a menu option per (day, meal) for a week.
type WeeklyPoll struct {
	ID        string    `json:"id"`
	WeekOf    string    `json:"week_of"`
	Open      bool      `json:"open"`
	Options   []string  `json:"options"`
	CreatedAt time.Time `json:"created_at"`
}

// WeeklyVote is one student's pick for one (day, meal); last write wins.
type WeeklyVote struct {
	PollID    string `json:"poll_id"`
	StudentID string `json:"student_id"`
	Day       string `json:"day"`
	Meal      string `json:"meal"`
	Option    string `json:"option"`
}

// DailyPoll is a same-day headcount for one meal slot.
type DailyPoll struct {
	ID      string `json:"id"`
	DateKey string `json:"date_key"`
	Slot    string `json:"slot"`
	Open    bool   `json:"open"`
}

// DailyResponse is one student's eating/skip answer; last write wins.
type DailyResponse struct {
	PollID    string `json:"poll_id"`
	StudentID string `json:"student_id"`
	Choice    string `json:"choice"`
}

// Headcount summarizes a daily poll.
type Headcount struct {
	Eating  int `json:"eating"`
	Skipped int `json:"skipped"`
}

var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrPollClosed    = errors.New("poll is closed")
	ErrInvalidOption = errors.New("invalid poll option")
)

// Repository persists polls, votes and responses.
type Repository interface {
	InsertWeekly(ctx context.Context, p WeeklyPoll) error
	ListWeekly(ctx context.Context) ([]WeeklyPoll, error)
	GetWeekly(ctx context.Context, id string) (*WeeklyPoll, error)
	UpdateWeekly(ctx context.Context, p WeeklyPoll) error
	UpsertWeeklyVote(ctx context.Context, v WeeklyVote) error
	ListWeeklyVotes(ctx context.Context, pollID string) ([]WeeklyVote, error)

	InsertDaily(ctx context.Context, p DailyPoll) error
	ListDaily(ctx context.Context, dateKey string) ([]DailyPoll, error)
	GetDaily(ctx context.Context, id string) (*DailyPoll, error)
	UpdateDaily(ctx context.Context, p DailyPoll) error
	UpsertDailyResponse(ctx context.Context, r DailyResponse) error
	ListDailyResponses(ctx context.Context, pollID string) ([]DailyResponse, error)
	CountSkips(ctx context.Context, studentID string) (int, error)
}
