package store

import (
	"context"
	"testing"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
)

func newTestSessionStore(now *time.Time) *SessionStore {
	s := NewSessionStore()
	s.now = func() time.Time { return *now }
	return s
}

func newTestSession(token string) domain.Session {
	return domain.Session{
		Token: token,
		User:  domain.User{ID: "user-123", Name: "Demo User"},
	}
}

func TestSessionStore_PutGetDelete(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestSessionStore(&now)
	ctx := context.Background()

	if err := s.Put(ctx, newTestSession("tok-1"), time.Hour); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := s.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.User.ID != "user-123" {
		t.Fatalf("unexpected user %+v", got.User)
	}
	if !got.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", now.Add(time.Hour), got.ExpiresAt)
	}

	if err := s.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := s.Get(ctx, "tok-1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("deleting twice should be a no-op, got %v", err)
	}
}

func TestSessionStore_Get_Expired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestSessionStore(&now)
	ctx := context.Background()

	_ = s.Put(ctx, newTestSession("tok-1"), time.Minute)
	now = now.Add(time.Minute)

	if _, err := s.Get(ctx, "tok-1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound at expiry, got %v", err)
	}
}

func TestSessionStore_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestSessionStore(&now)
	ctx := context.Background()

	_ = s.Put(ctx, newTestSession("long"), 3*time.Hour)
	_ = s.Put(ctx, newTestSession("short"), time.Hour)
	_ = s.Put(ctx, newTestSession("mid"), 2*time.Hour)

	if n := s.Sweep(now.Add(30 * time.Minute)); n != 0 {
		t.Fatalf("expected nothing swept, got %d", n)
	}
	if n := s.Sweep(now.Add(2 * time.Hour)); n != 2 {
		t.Fatalf("expected 2 swept, got %d", n)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", s.Len())
	}
	if _, err := s.Get(ctx, "long"); err != nil {
		t.Fatalf("expected long-lived session to remain, got %v", err)
	}
}

func TestSessionStore_Put_RefreshesExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestSessionStore(&now)
	ctx := context.Background()

	_ = s.Put(ctx, newTestSession("tok"), time.Minute)
	_ = s.Put(ctx, newTestSession("tok"), time.Hour)

	if n := s.Sweep(now.Add(5 * time.Minute)); n != 0 {
		t.Fatalf("refreshed session should survive sweep, swept %d", n)
	}
	if n := s.Sweep(now.Add(time.Hour)); n != 1 {
		t.Fatalf("expected refreshed session swept at new expiry, swept %d", n)
	}
}

func TestSessionStore_Start_StopsOnCancel(t *testing.T) {
	now := time.Now()
	s := newTestSessionStore(&now)
	ctx, cancel := context.WithCancel(context.Background())

	_ = s.Put(ctx, newTestSession("tok"), -time.Second)
	s.Start(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for s.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if s.Len() != 0 {
		t.Fatal("expected expired session to be swept by background loop")
	}
}
