package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
)

func TestSessionFields_RoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 123, time.UTC)
	sess := domain.Session{
		Token: "tok",
		User: domain.User{
			ID:     "user-google-123",
			Name:   "Google User",
			Email:  "user@google.example.com",
			Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Google",
		},
		CreatedAt: created,
		ExpiresAt: created.Add(time.Hour),
	}

	vals := make(map[string]string)
	for k, v := range sessionFields(sess) {
		vals[k] = v.(string)
	}

	got, err := parseSession("tok", vals)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.User != sess.User || got.Token != "tok" {
		t.Fatalf("expected %+v, got %+v", sess, got)
	}
	if !got.CreatedAt.Equal(sess.CreatedAt) || !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Fatalf("timestamps changed: %v/%v", got.CreatedAt, got.ExpiresAt)
	}
}

func TestParseSession_Corrupt(t *testing.T) {
	_, err := parseSession("tok", map[string]string{"user_id": "u", "created_at": "x"})
	if err == nil {
		t.Fatal("expected error for corrupt hash")
	}
}

// TestSessionStore_Live runs against the Redis named by
// TRADEDESK_TEST_REDIS_ADDR and is skipped otherwise.
func TestSessionStore_Live(t *testing.T) {
	addr := os.Getenv("TRADEDESK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TRADEDESK_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	c, err := New(ctx, ClientConfig{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	s := NewSessionStore(c)
	token := "test-" + time.Now().Format("150405.000000")
	sess := domain.Session{Token: token, User: domain.User{ID: "user-123"}, CreatedAt: time.Now()}

	if err := s.Put(ctx, sess, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.User.ID != "user-123" {
		t.Fatalf("unexpected session %+v", got)
	}

	if err := s.Delete(ctx, token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, token); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
