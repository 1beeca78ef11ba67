package students

import (
	"context"
	"errors"
	"time"
)

// Details is the profile the warden maintains per student.
type Details struct {
	Name            string   `json:"name"`
	ParentName      string   `json:"parent_name"`
	ParentContact   string   `json:"parent_contact"`
	StudentContact  string   `json:"student_contact"`
	Address         string   `json:"address"`
	Email           string   `json:"email"`
	TotalAmount     *float64 `json:"total_amount,omitempty"`
	JoiningDate     string   `json:"joining_date"`
	ProfilePhotoURL string   `json:"profile_photo_url,omitempty"`
}

// Credentials are the student's login. Passwords are stored and compared as
// plaintext, matching the portal this replaces.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Student is a directory record.
type Student struct {
	ID          string       `json:"id"`
	RollNumber  string       `json:"roll_number"`
	Details     Details      `json:"details"`
	Credentials *Credentials `json:"credentials,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PublicView is the student-facing shape, with the password stripped.
type PublicView struct {
	ID         string  `json:"id"`
	RollNumber string  `json:"roll_number"`
	Details    Details `json:"details"`
	Username   string  `json:"username,omitempty"`
}

var (
	ErrNotFound        = errors.New("student not found")
	ErrBadCredentials  = errors.New("invalid username or password")
	ErrRollNumberTaken = errors.New("roll number already registered")
)

// Repository persists student records.
type Repository interface {
	List(ctx context.Context) ([]Student, error)
	Get(ctx context.Context, id string) (*Student, error)
	GetByUsername(ctx context.Context, username string) (*Student, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*Student, error)
	Insert(ctx context.Context, s Student) error
	Update(ctx context.Context, s Student) error
	Delete(ctx context.Context, id string) error
}
