package store

import (
	"sync"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// TransferStore is a thread-safe in-memory store for funds transfers,
// keyed by user. Transfers are append-only and chronological.
type TransferStore struct {
	mu        sync.RWMutex
	transfers map[string][]domain.Transfer // user_id → transfers (chronological)
}

// NewTransferStore creates an empty TransferStore.
func NewTransferStore() *TransferStore {
	return &TransferStore{
		transfers: make(map[string][]domain.Transfer),
	}
}

// Append records a transfer on its user's list.
func (s *TransferStore) Append(t domain.Transfer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transfers[t.UserID] = append(s.transfers[t.UserID], t)
}

// ListByUser returns the user's transfers newest first. It returns an empty
// slice if the user has none.
func (s *TransferStore) ListByUser(userID string) []domain.Transfer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.transfers[userID]
	out := make([]domain.Transfer, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	return out
}
