package store

import (
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/efreitasn/tradedesk/internal/domain"
)

var _ domain.OrderRepository = (*OrderStore)(nil)

// orderEntry is a node of the history index.
type orderEntry struct {
	order domain.Order
}

// newestFirst orders by timestamp descending, then id ascending, so Ascend
// walks history from the most recent order.
func newestFirst(a, b orderEntry) bool {
	if !a.order.Timestamp.Equal(b.order.Timestamp) {
		return a.order.Timestamp.After(b.order.Timestamp)
	}
	return a.order.ID < b.order.ID
}

// OrderStore is a thread-safe in-memory order repository with a primary
// index by id and a B-tree index in reverse chronological order.
type OrderStore struct {
	mu      sync.RWMutex
	orders  map[string]domain.Order
	history *btree.BTreeG[orderEntry]
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	const degree = 32
	return &OrderStore{
		orders:  make(map[string]domain.Order),
		history: btree.NewG[orderEntry](degree, newestFirst),
	}
}

// Create adds an order. Creating an id that already exists replaces the
// stored order.
func (s *OrderStore) Create(_ context.Context, o domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.orders[o.ID]; ok {
		s.history.Delete(orderEntry{order: prev})
	}
	s.orders[o.ID] = o
	s.history.ReplaceOrInsert(orderEntry{order: o})
	return nil
}

// Get retrieves an order by ID. It returns domain.ErrOrderNotFound if the
// order does not exist.
func (s *OrderStore) Get(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

// List returns all orders, newest first.
func (s *OrderStore) List(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0, s.history.Len())
	s.history.Ascend(func(e orderEntry) bool {
		out = append(out, e.order)
		return true
	})
	return out, nil
}

// Len returns the number of stored orders.
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
