// Package session issues and resolves mock sessions. Credentials are
// validated for shape only; every well-formed login succeeds as a fixed
// demo user.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/tradedesk/internal/domain"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// Login methods reported to the Observer.
const (
	KindLogin  = "login"
	KindSignup = "signup"
	KindSocial = "social"
)

// Observer is notified of every opened session.
type Observer interface {
	SessionOpened(method string)
}

// Options configure a Manager.
type Options struct {
	TTL         time.Duration
	LoginDelay  time.Duration
	SignupDelay time.Duration // signup and social login
}

// Manager owns the session lifecycle: open on login or signup, resolve on
// every request, close on logout.
type Manager struct {
	store    domain.SessionStore
	opts     Options
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
	newToken func() string
}

// NewManager creates a Manager persisting sessions in store. observer may
// be nil.
func NewManager(store domain.SessionStore, opts Options, observer Observer, logger *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		opts:     opts,
		observer: observer,
		logger:   logger.With(slog.String("component", "session")),
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Login opens a session for the demo user.
func (m *Manager) Login(ctx context.Context, c Credentials) (domain.Session, error) {
	if err := c.Validate(); err != nil {
		return domain.Session{}, err
	}
	if err := sleep(ctx, m.opts.LoginDelay); err != nil {
		return domain.Session{}, err
	}

	user := domain.User{
		ID:     "user-123",
		Name:   "Demo User",
		Avatar: avatarBaseURL + "Felix",
	}
	setIdentifier(&user, c)
	return m.open(ctx, user, KindLogin)
}

// Signup registers and opens a session for a new demo user.
func (m *Manager) Signup(ctx context.Context, r Registration) (domain.Session, error) {
	if err := r.Validate(); err != nil {
		return domain.Session{}, err
	}
	if err := sleep(ctx, m.opts.SignupDelay); err != nil {
		return domain.Session{}, err
	}

	user := domain.User{
		ID:     "new-user-123",
		Name:   "New User",
		Avatar: avatarBaseURL + "NewUser",
	}
	setIdentifier(&user, r.Credentials)
	return m.open(ctx, user, KindSignup)
}

// SocialLogin opens a session as the provider's demo user.
func (m *Manager) SocialLogin(ctx context.Context, provider string) (domain.Session, error) {
	if !validProvider(provider) {
		return domain.Session{}, &domain.ValidationError{Message: fmt.Sprintf("unknown provider %q", provider)}
	}
	if err := sleep(ctx, m.opts.SignupDelay); err != nil {
		return domain.Session{}, err
	}

	lower := strings.ToLower(provider)
	user := domain.User{
		ID:     "user-" + lower + "-123",
		Name:   provider + " User",
		Email:  "user@" + lower + ".example.com",
		Avatar: avatarBaseURL + provider,
	}
	return m.open(ctx, user, KindSocial)
}

// Get resolves token to its live session.
func (m *Manager) Get(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return m.store.Get(ctx, token)
}

// Logout ends the session for token. Ending an unknown session succeeds.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	m.logger.Info("session closed")
	return nil
}

func (m *Manager) open(ctx context.Context, user domain.User, kind string) (domain.Session, error) {
	now := m.now().UTC()
	sess := domain.Session{
		Token:     m.newToken(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(m.opts.TTL),
	}
	if err := m.store.Put(ctx, sess, m.opts.TTL); err != nil {
		return domain.Session{}, fmt.Errorf("session: open: %w", err)
	}

	if m.observer != nil {
		m.observer.SessionOpened(kind)
	}
	m.logger.Info("session opened",
		slog.String("user_id", user.ID),
		slog.String("method", kind),
	)
	return sess, nil
}

// setIdentifier stores the login identifier as email or phone.
func setIdentifier(u *domain.User, c Credentials) {
	if c.method() == MethodEmail {
		u.Email = c.Identifier
		return
	}
	u.Phone = c.Identifier
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
