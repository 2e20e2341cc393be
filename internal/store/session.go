package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
)

var _ domain.SessionStore = (*SessionStore)(nil)

// SessionStore is a thread-safe in-memory session store. Sessions are
// tracked sorted by expiry so a periodic sweep can drop them from the front.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	expiries []domain.Session // sorted by ExpiresAt ASC
	now      func() time.Time
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		now:      time.Now,
	}
}

// Put stores s until ttl elapses. ExpiresAt on the stored copy is set from
// ttl.
func (s *SessionStore) Put(_ context.Context, sess domain.Session, ttl time.Duration) error {
	sess.ExpiresAt = s.now().Add(ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.Token]; ok {
		s.removeExpiry(sess.Token)
	}
	s.sessions[sess.Token] = sess

	idx := sort.Search(len(s.expiries), func(i int) bool {
		return s.expiries[i].ExpiresAt.After(sess.ExpiresAt)
	})
	s.expiries = append(s.expiries, domain.Session{})
	copy(s.expiries[idx+1:], s.expiries[idx:])
	s.expiries[idx] = sess
	return nil
}

// Get returns the session for token. Expired sessions are reported as
// domain.ErrSessionNotFound even before the sweep removes them.
func (s *SessionStore) Get(_ context.Context, token string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || sess.Expired(s.now()) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session for token. Deleting an unknown token is a no-op.
func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return nil
	}
	delete(s.sessions, token)
	s.removeExpiry(token)
	return nil
}

// Start launches a background goroutine that sweeps expired sessions at
// the given interval. It stops when ctx is cancelled.
func (s *SessionStore) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				s.Sweep(t)
			}
		}
	}()
}

// Sweep removes every session whose expiry is at or before now and returns
// how many were removed.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := 0
	for cutoff < len(s.expiries) && !s.expiries[cutoff].ExpiresAt.After(now) {
		delete(s.sessions, s.expiries[cutoff].Token)
		cutoff++
	}
	if cutoff > 0 {
		s.expiries = s.expiries[cutoff:]
	}
	return cutoff
}

// Len returns the number of tracked sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// removeExpiry drops token from the expiry list. Callers hold mu.
func (s *SessionStore) removeExpiry(token string) {
	for i, e := range s.expiries {
		if e.Token == token {
			s.expiries = append(s.expiries[:i], s.expiries[i+1:]...)
			return
		}
	}
}
