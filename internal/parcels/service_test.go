package parcels

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCollectWithOTP(t *testing.T) {
	ctx := context.Background()
	s := NewService(NewMemoryRepository())

	p, err := s.Create(ctx, "S1", " PKG-42 ", "bluedart", "fragile", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if p.ParcelCode != "PKG-42" {
		t.Fatalf("parcel code = %q, want trimmed", p.ParcelCode)
	}
	if len(p.OTP) != 6 {
		t.Fatalf("otp = %q, want 6 digits", p.OTP)
	}

	if _, err := s.CollectWithOTP(ctx, p.ID, "000000"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("wrong otp err = %v, want ErrInvalidOTP", err)
	}
	collected, err := s.CollectWithOTP(ctx, p.ID, p.OTP)
	if err != nil {
		t.Fatal(err)
	}
	if !collected.Collected || collected.CollectedAt == nil {
		t.Fatalf("parcel after collect = %+v", collected)
	}
	if _, err := s.CollectWithOTP(ctx, p.ID, p.OTP); !errors.Is(err, ErrAlreadyCollected) {
		t.Fatalf("re-collect err = %v, want ErrAlreadyCollected", err)
	}
	if _, err := s.CollectWithOTP(ctx, "missing", "123456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown parcel err = %v, want ErrNotFound", err)
	}
}

func TestOverrideCollected(t *testing.T) {
	ctx := context.Background()
	s := NewService(NewMemoryRepository())
	p, _ := s.Create(ctx, "S1", "PKG-1", "", "", time.Time{})

	if err := s.OverrideCollected(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	pending, _ := s.ListPending(ctx)
	if len(pending) != 0 {
		t.Fatalf("pending after override = %d, want 0", len(pending))
	}
	// Idempotent, including for unknown ids.
	if err := s.OverrideCollected(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.OverrideCollected(ctx, "missing"); err != nil {
		t.Fatal(err)
	}
}

func TestListingsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewService(NewMemoryRepository())
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	older, _ := s.Create(ctx, "S1", "PKG-1", "", "", base)
	newer, _ := s.Create(ctx, "S1", "PKG-2", "", "", base.Add(time.Hour))
	other, _ := s.Create(ctx, "S2", "PKG-3", "", "", base.Add(2*time.Hour))

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != other.ID || all[2].ID != older.ID {
		t.Fatalf("ListAll order wrong: %+v", all)
	}

	byStudent, _ := s.ListByStudent(ctx, "S1")
	if len(byStudent) != 2 || byStudent[0].ID != newer.ID {
		t.Fatalf("ListByStudent = %+v", byStudent)
	}
}
