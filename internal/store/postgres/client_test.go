package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
)

func TestMigrationNames_Ordered(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(names) == 0 || names[0] != "001_orders.sql" {
		t.Fatalf("unexpected migrations %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i] <= names[i-1] {
			t.Fatalf("migrations out of order: %v", names)
		}
	}
}

func TestNew_InvalidDSN(t *testing.T) {
	_, err := New(context.Background(), ClientConfig{DSN: "://not a dsn"})
	if err == nil {
		t.Fatal("expected error for invalid DSN")
	}
}

// TestOrderStore_RoundTrip runs against a live database named by
// TRADEDESK_TEST_POSTGRES_DSN and is skipped otherwise.
func TestOrderStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("TRADEDESK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TRADEDESK_TEST_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := New(ctx, ClientConfig{DSN: dsn})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()
	if err := client.RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := NewOrderStore(client.Pool())
	id := "t" + time.Now().Format("150405")
	want := domain.Order{
		ID: id, Type: domain.OrderSideSell, Crypto: "Ethereum",
		Price: 2250.5, Amount: 2, Total: 4501,
		Status: domain.OrderStatusPending, Timestamp: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.Create(ctx, want); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() {
		_, _ = client.Pool().Exec(context.Background(), "DELETE FROM orders WHERE id = $1", id)
	})

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	gotTS, wantTS := got.Timestamp, want.Timestamp
	got.Timestamp, want.Timestamp = time.Time{}, time.Time{}
	if got != want || !gotTS.Equal(wantTS) {
		t.Fatalf("expected %+v at %v, got %+v at %v", want, wantTS, got, gotTS)
	}

	if _, err := s.Get(ctx, "missing-"+id); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
