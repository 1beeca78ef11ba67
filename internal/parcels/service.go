package parcels

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service tracks parcels from arrival to OTP-gated collection.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func genOTP() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}

// Create logs an arrived parcel and generates its collection OTP.
func (s *Service) Create(ctx context.Context, studentID, parcelCode, carrier, note string, receivedAt time.Time) (Parcel, error) {
	if receivedAt.IsZero() {
		receivedAt = s.now()
	}
	p := Parcel{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		ParcelCode: strings.TrimSpace(parcelCode),
		Carrier:    strings.TrimSpace(carrier),
		ReceivedAt: receivedAt,
		OTP:        genOTP(),
		Note:       note,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return Parcel{}, err
	}
	return p, nil
}

// ListAll returns every parcel newest first.
func (s *Service) ListAll(ctx context.Context) ([]Parcel, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ReceivedAt.After(all[j].ReceivedAt) })
	return all, nil
}

// ListPending returns uncollected parcels newest first.
func (s *Service) ListPending(ctx context.Context) ([]Parcel, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if !p.Collected {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListByStudent returns one student's parcels newest first.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]Parcel, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

// CollectWithOTP marks the parcel collected when the OTP matches.
func (s *Service) CollectWithOTP(ctx context.Context, id, otp string) (Parcel, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Parcel{}, err
	}
	if p == nil {
		return Parcel{}, ErrNotFound
	}
	if p.Collected {
		return Parcel{}, ErrAlreadyCollected
	}
	if p.OTP != otp {
		return Parcel{}, ErrInvalidOTP
	}
	now := s.now()
	p.Collected = true
	p.CollectedAt = &now
	if err := s.repo.Update(ctx, *p); err != nil {
		return Parcel{}, err
	}
	return *p, nil
}

// OverrideCollected is the warden's force-collect, bypassing the OTP. A
// no-op for unknown or already-collected parcels.
func (s *Service) OverrideCollected(ctx context.Context, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || p.Collected {
		return nil
	}
	now := s.now()
	p.Collected = true
	p.CollectedAt = &now
	return s.repo.Update(ctx, *p)
}

// Delete removes the parcel record.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
