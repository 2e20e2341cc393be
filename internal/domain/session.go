package domain

import "time"

// User is the identity attached to a session. Email and Phone are mutually
// exclusive for credential logins.
type User struct {
	ID     string
	Name   string
	Email  string
	Phone  string
	Avatar string
}

// Session binds an opaque token to a user until ExpiresAt.
type Session struct {
	Token     string
	User      User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
