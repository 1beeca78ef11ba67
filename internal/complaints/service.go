package complaints

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service runs the complaint feed.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create files a complaint. An empty studentID makes the post anonymous.
func (s *Service) Create(ctx context.Context, studentID, category, text string) (Complaint, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	valid := false
	for _, c := range Categories {
		if c == category {
			valid = true
			break
		}
	}
	if !valid {
		return Complaint{}, ErrInvalidCategory
	}
	c := Complaint{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Category:  category,
		Text:      strings.TrimSpace(text),
		Status:    StatusOpen,
		CreatedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return Complaint{}, err
	}
	return c, nil
}

// ListFeed returns complaints newest first.
func (s *Service) ListFeed(ctx context.Context) ([]Complaint, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

// Upvote records a student's support. Repeat votes are no-ops.
func (s *Service) Upvote(ctx context.Context, complaintID, studentID string) error {
	return s.repo.AddUpvote(ctx, complaintID, studentID)
}

// HasUpvoted reports whether the student already voted.
func (s *Service) HasUpvoted(ctx context.Context, complaintID, studentID string) (bool, error) {
	c, err := s.repo.Get(ctx, complaintID)
	if err != nil {
		return false, err
	}
	if c == nil {
		return false, ErrNotFound
	}
	for _, voter := range c.Upvotes {
		if voter == studentID {
			return true, nil
		}
	}
	return false, nil
}

// Resolve closes a complaint.
func (s *Service) Resolve(ctx context.Context, complaintID string) error {
	return s.repo.UpdateStatus(ctx, complaintID, StatusResolved)
}
