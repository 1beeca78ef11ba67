package students

import (
	"context"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service manages the student directory and login checks.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// List returns every student record, warden view.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	return s.repo.List(ctx)
}

// Get returns the full record, warden view.
func (s *Service) Get(ctx context.Context, id string) (Student, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if st == nil {
		return Student{}, ErrNotFound
	}
	return *st, nil
}

// GetPublic returns the student-facing view with the password stripped.
func (s *Service) GetPublic(ctx context.Context, id string) (PublicView, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return PublicView{}, err
	}
	view := PublicView{ID: st.ID, RollNumber: st.RollNumber, Details: st.Details}
	if st.Credentials != nil {
		view.Username = st.Credentials.Username
	}
	return view, nil
}

// Create registers a student. Roll numbers are unique.
func (s *Service) Create(ctx context.Context, rollNumber string, details Details) (Student, error) {
	rollNumber = strings.TrimSpace(rollNumber)
	if rollNumber != "" {
		existing, err := s.repo.GetByRollNumber(ctx, rollNumber)
		if err != nil {
			return Student{}, err
		}
		if existing != nil {
			return Student{}, ErrRollNumberTaken
		}
	}
	st := Student{
		ID:         uuid.NewString(),
		RollNumber: rollNumber,
		Details:    details,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Insert(ctx, st); err != nil {
		return Student{}, err
	}
	return st, nil
}

// UpdateDetails patches the profile, leaving credentials untouched.
func (s *Service) UpdateDetails(ctx context.Context, id string, details Details) (Student, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	st.Details = details
	if err := s.repo.Update(ctx, st); err != nil {
		return Student{}, err
	}
	return st, nil
}

// Delete removes the directory record.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetCredentials attaches a login to the student.
func (s *Service) SetCredentials(ctx context.Context, id string, creds Credentials) error {
	st, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	st.Credentials = &creds
	return s.repo.Update(ctx, st)
}

// ResetPassword replaces the password, keeping the username. A student with
// no credentials yet is left untouched.
func (s *Service) ResetPassword(ctx context.Context, id, newPassword string) error {
	st, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if st.Credentials == nil {
		return nil
	}
	st.Credentials.Password = newPassword
	return s.repo.Update(ctx, st)
}

// Authenticate checks a plaintext login and returns the student id.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	st, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if st == nil || st.Credentials == nil || st.Credentials.Password != password {
		return "", ErrBadCredentials
	}
	return st.ID, nil
}

// StudentIDs satisfies the attendance roster interface.
func (s *Service) StudentIDs(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(all))
	for _, st := range all {
		ids = append(ids, st.ID)
	}
	return ids, nil
}

var usernameJunk = regexp.MustCompile(`[^a-z0-9]+`)

// SuggestUsername derives a login name from a student's name plus a random
// 4-digit tail.
func SuggestUsername(name string) string {
	clean := usernameJunk.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), ".")
	clean = strings.Trim(clean, ".")
	if clean == "" {
		clean = "student"
	}
	tail := 1000 + rand.Intn(9000)
	return clean + "." + strconv.Itoa(tail)
}

const passwordChars = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789!@#$%^&*"

// GeneratePassword produces a random password from an ambiguity-free
// character set.
func GeneratePassword(length int) string {
	if length <= 0 {
		length = 12
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = passwordChars[rand.Intn(len(passwordChars))]
	}
	return string(out)
}
