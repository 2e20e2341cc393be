package session

import (
	"context"

	"github.com/efreitasn/tradedesk/internal/domain"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying sess.
func NewContext(ctx context.Context, sess domain.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored in ctx by NewContext.
func FromContext(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(domain.Session)
	return sess, ok
}
