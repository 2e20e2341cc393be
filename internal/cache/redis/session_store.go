package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/efreitasn/tradedesk/internal/domain"
)

var _ domain.SessionStore = (*SessionStore)(nil)

// SessionStore implements domain.SessionStore using Redis hashes. Each
// session lives at "session:{token}" and expires with the key's TTL.
type SessionStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewSessionStore creates a SessionStore backed by the given Client.
func NewSessionStore(c *Client) *SessionStore {
	return &SessionStore{rdb: c.Underlying(), now: time.Now}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Put stores the session with the given ttl.
func (s *SessionStore) Put(ctx context.Context, sess domain.Session, ttl time.Duration) error {
	sess.ExpiresAt = s.now().Add(ttl)
	key := sessionKey(sess.Token)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, sessionFields(sess))
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: put session: %w", err)
	}
	return nil
}

// Get returns the session for token, or domain.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, token string) (domain.Session, error) {
	vals, err := s.rdb.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: get session: %w", err)
	}
	if len(vals) == 0 {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	sess, err := parseSession(token, vals)
	if err != nil {
		return domain.Session{}, err
	}
	if sess.Expired(s.now()) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session for token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

func sessionFields(sess domain.Session) map[string]interface{} {
	return map[string]interface{}{
		"user_id":    sess.User.ID,
		"name":       sess.User.Name,
		"email":      sess.User.Email,
		"phone":      sess.User.Phone,
		"avatar":     sess.User.Avatar,
		"created_at": strconv.FormatInt(sess.CreatedAt.UnixNano(), 10),
		"expires_at": strconv.FormatInt(sess.ExpiresAt.UnixNano(), 10),
	}
}

func parseSession(token string, vals map[string]string) (domain.Session, error) {
	created, err := strconv.ParseInt(vals["created_at"], 10, 64)
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: parse session created_at: %w", err)
	}
	expires, err := strconv.ParseInt(vals["expires_at"], 10, 64)
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: parse session expires_at: %w", err)
	}

	return domain.Session{
		Token: token,
		User: domain.User{
			ID:     vals["user_id"],
			Name:   vals["name"],
			Email:  vals["email"],
			Phone:  vals["phone"],
			Avatar: vals["avatar"],
		},
		CreatedAt: time.Unix(0, created).UTC(),
		ExpiresAt: time.Unix(0, expires).UTC(),
	}, nil
}
