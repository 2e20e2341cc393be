package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
)

func newTestOrder(id string, ts time.Time) domain.Order {
	return domain.Order{
		ID:        id,
		Type:      domain.OrderSideBuy,
		Crypto:    "Bitcoin",
		Price:     42650.75,
		Amount:    0.1,
		Total:     4265.075,
		Status:    domain.OrderStatusPending,
		Timestamp: ts,
	}
}

func TestOrderStore_Create_and_Get(t *testing.T) {
	s := NewOrderStore()
	ctx := context.Background()
	o := newTestOrder("abc123", time.Now())

	if err := s.Create(ctx, o); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := s.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != "abc123" || got.Crypto != "Bitcoin" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestOrderStore_Get_NotFound(t *testing.T) {
	s := NewOrderStore()

	_, err := s.Get(context.Background(), "no-such-order")
	if err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderStore_List_NewestFirst(t *testing.T) {
	s := NewOrderStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order.
	for _, i := range []int{2, 0, 4, 1, 3} {
		_ = s.Create(ctx, newTestOrder(fmt.Sprintf("order-%d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	orders, err := s.List(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(orders) != 5 {
		t.Fatalf("expected 5 orders, got %d", len(orders))
	}
	for i := 0; i < len(orders)-1; i++ {
		if !orders[i].Timestamp.After(orders[i+1].Timestamp) {
			t.Fatalf("orders not in reverse chronological order at index %d", i)
		}
	}
	if orders[0].ID != "order-4" {
		t.Fatalf("expected order-4 first, got %s", orders[0].ID)
	}
}

func TestOrderStore_List_TiesBrokenByID(t *testing.T) {
	s := NewOrderStore()
	ctx := context.Background()
	now := time.Now()

	_ = s.Create(ctx, newTestOrder("b", now))
	_ = s.Create(ctx, newTestOrder("a", now))
	_ = s.Create(ctx, newTestOrder("c", now))

	orders, _ := s.List(ctx)
	for i, want := range []string{"a", "b", "c"} {
		if orders[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, orders[i].ID)
		}
	}
}

func TestOrderStore_Create_ReplacesSameID(t *testing.T) {
	s := NewOrderStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = s.Create(ctx, newTestOrder("dup", base))
	updated := newTestOrder("dup", base.Add(time.Hour))
	updated.Status = domain.OrderStatusCompleted
	_ = s.Create(ctx, updated)

	orders, _ := s.List(ctx)
	if len(orders) != 1 {
		t.Fatalf("expected 1 order after replace, got %d", len(orders))
	}
	if orders[0].Status != domain.OrderStatusCompleted || !orders[0].Timestamp.Equal(base.Add(time.Hour)) {
		t.Fatalf("expected replaced order, got %+v", orders[0])
	}
	if s.Len() != 1 {
		t.Fatalf("expected Len 1, got %d", s.Len())
	}
}

func TestOrderStore_List_Empty(t *testing.T) {
	s := NewOrderStore()

	orders, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Fatalf("expected non-nil empty slice, got %v", orders)
	}
}

func TestOrderStore_ConcurrentAccess(t *testing.T) {
	s := NewOrderStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	base := time.Now()

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Create(ctx, newTestOrder(fmt.Sprintf("order-%d", i), base.Add(time.Duration(i)*time.Millisecond)))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 100; i++ {
		if _, err := s.Get(ctx, fmt.Sprintf("order-%d", i)); err != nil {
			t.Fatalf("order-%d should exist, got %v", i, err)
		}
	}

	// Concurrent reads while creating more.
	for i := 100; i < 200; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = s.Create(ctx, newTestOrder(fmt.Sprintf("order-%d", i), base.Add(time.Duration(i)*time.Millisecond)))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = s.List(ctx)
		}()
	}
	wg.Wait()

	if s.Len() != 200 {
		t.Fatalf("expected 200 orders, got %d", s.Len())
	}
}
