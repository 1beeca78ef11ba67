package attendance

import (
	"context"
	"errors"
	"testing"
	"time"
)

type staticRoster []string

func (r staticRoster) StudentIDs(ctx context.Context) ([]string, error) {
	return r, nil
}

func newTestService(roster []string) (*Service, *time.Time) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := NewService(NewMemoryRepository(), staticRoster(roster), time.Hour)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestMarkWithTokenBeforeAndAfterExpiry(t *testing.T) {
	ctx := context.Background()
	s, now := newTestService(nil)

	session, err := s.CreateSession(ctx, time.Hour, "")
	if err != nil {
		t.Fatal(err)
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		t.Fatalf("session expires at %v, not after created %v", session.ExpiresAt, session.CreatedAt)
	}

	rec, err := s.MarkWithToken(ctx, session.Token, "S1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != StatusPresent || rec.DateKey != session.DateKey {
		t.Fatalf("record = %+v", rec)
	}

	// Past expiry a still-matching token reports the expiry, not an
	// unknown token.
	*now = now.Add(2 * time.Hour)
	if _, err := s.MarkWithToken(ctx, session.Token, "S2", nil); !errors.Is(err, ErrQRExpired) {
		t.Fatalf("expired token err = %v, want ErrQRExpired", err)
	}

	if _, err := s.MarkWithToken(ctx, "bogus", "S1", nil); !errors.Is(err, ErrInvalidOrExpiredQR) {
		t.Fatalf("bogus token err = %v, want ErrInvalidOrExpiredQR", err)
	}
}

func TestMarkWithTokenExactlyAtExpiry(t *testing.T) {
	ctx := context.Background()
	s, now := newTestService(nil)

	session, err := s.CreateSession(ctx, time.Hour, "")
	if err != nil {
		t.Fatal(err)
	}

	// Expiry is exclusive: a scan at exactly ExpiresAt is already late.
	*now = session.ExpiresAt
	if _, err := s.MarkWithToken(ctx, session.Token, "S1", nil); !errors.Is(err, ErrQRExpired) {
		t.Fatalf("at-expiry err = %v, want ErrQRExpired", err)
	}
}

func TestMarkWithTokenUpsertsSingleRecord(t *testing.T) {
	ctx := context.Background()
	s, now := newTestService(nil)
	session, err := s.CreateSession(ctx, time.Hour, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.MarkWithToken(ctx, session.Token, "S1", nil); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(10 * time.Minute)
	second, err := s.MarkWithToken(ctx, session.Token, "S1", &Point{Lat: 12.90, Lng: 77.50})
	if err != nil {
		t.Fatal(err)
	}

	recs, err := s.ListDay(ctx, session.DateKey)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want single upserted record", len(recs))
	}
	if !recs[0].MarkedAt.Equal(second.MarkedAt) || recs[0].Location == nil {
		t.Fatalf("record did not take the latest write: %+v", recs[0])
	}
}

func TestManualPresenceOverwritesScan(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(nil)
	session, _ := s.CreateSession(ctx, time.Hour, "")

	if _, err := s.SetManualPresence(ctx, session.DateKey, "S1", false); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MarkWithToken(ctx, session.Token, "S1", nil); err != nil {
		t.Fatal(err)
	}
	rec, _ := s.repo.GetRecord(ctx, session.DateKey, "S1")
	if rec.Status != StatusPresent {
		t.Fatalf("later scan did not overwrite manual absent: %+v", rec)
	}
}

func TestGeofence(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(nil)
	session, _ := s.CreateSession(ctx, time.Hour, "")

	// Unconfigured fence allows any point.
	far := Point{Lat: 13.0, Lng: 77.6}
	if _, err := s.MarkWithToken(ctx, session.Token, "S0", &far); err != nil {
		t.Fatalf("permissive default: %v", err)
	}

	center := Point{Lat: 12.90, Lng: 77.50}
	if err := s.SetFence(ctx, Fence{Center: center, RadiusM: 50}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.MarkWithToken(ctx, session.Token, "S1", &center); err != nil {
		t.Fatalf("point at center: %v", err)
	}
	// ~200m north of center.
	outside := Point{Lat: 12.9018, Lng: 77.50}
	if _, err := s.MarkWithToken(ctx, session.Token, "S2", &outside); !errors.Is(err, ErrOutsideGeofence) {
		t.Fatalf("outside point err = %v, want ErrOutsideGeofence", err)
	}
	// No location supplied skips the fence check.
	if _, err := s.MarkWithToken(ctx, session.Token, "S3", nil); err != nil {
		t.Fatalf("no location: %v", err)
	}
}

func TestFinalizeInsertsAbsentWithoutOverwriting(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService([]string{"S1", "S2", "S3"})
	session, _ := s.CreateSession(ctx, time.Hour, "")

	if _, err := s.MarkWithToken(ctx, session.Token, "S1", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetManualPresence(ctx, session.DateKey, "S2", false); err != nil {
		t.Fatal(err)
	}

	if err := s.FinalizeAttendance(ctx, session.DateKey); err != nil {
		t.Fatal(err)
	}

	want := map[string]Status{"S1": StatusPresent, "S2": StatusAbsent, "S3": StatusAbsent}
	recs, _ := s.ListDay(ctx, session.DateKey)
	if len(recs) != len(want) {
		t.Fatalf("records = %d, want %d", len(recs), len(want))
	}
	for _, rec := range recs {
		if rec.Status != want[rec.StudentID] {
			t.Fatalf("%s status = %s, want %s", rec.StudentID, rec.Status, want[rec.StudentID])
		}
	}

	// Finalize locked the day's sessions; the token is dead.
	if _, err := s.MarkWithToken(ctx, session.Token, "S3", nil); !errors.Is(err, ErrInvalidOrExpiredQR) {
		t.Fatalf("mark after finalize err = %v, want ErrInvalidOrExpiredQR", err)
	}
}

func TestGetActiveSessionReturnsEarliestLive(t *testing.T) {
	ctx := context.Background()
	s, now := newTestService(nil)

	first, _ := s.CreateSession(ctx, 30*time.Minute, "")
	*now = now.Add(time.Minute)
	if _, err := s.CreateSession(ctx, 30*time.Minute, ""); err != nil {
		t.Fatal(err)
	}

	active, err := s.GetActiveSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active == nil || active.ID != first.ID {
		t.Fatalf("active session = %+v, want earliest-created", active)
	}

	// Lock the day; no session is active any more.
	if err := s.LockSessions(ctx, first.DateKey); err != nil {
		t.Fatal(err)
	}
	active, _ = s.GetActiveSession(ctx)
	if active != nil {
		t.Fatalf("active after lock = %+v, want nil", active)
	}
}
