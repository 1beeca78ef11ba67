package parcels

import (
	"context"
	"errors"
	"time"
)

// Parcel is a package held at the hostel desk until the student collects it
// with the OTP.
type Parcel struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"student_id"`
	ParcelCode  string     `json:"parcel_code"`
	Carrier     string     `json:"carrier,omitempty"`
	ReceivedAt  time.Time  `json:"received_at"`
	Collected   bool       `json:"collected"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
	OTP         string     `json:"otp"`
	Note        string     `json:"note,omitempty"`
}

var (
	ErrNotFound         = errors.New("parcel not found")
	ErrAlreadyCollected = errors.New("parcel already collected")
	ErrInvalidOTP       = errors.New("invalid OTP")
)

// Repository persists parcels.
type Repository interface {
	Insert(ctx context.Context, p Parcel) error
	Get(ctx context.Context, id string) (*Parcel, error)
	Update(ctx context.Context, p Parcel) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Parcel, error)
}
