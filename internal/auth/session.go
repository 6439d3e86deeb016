package auth

import (
	"context"
	"time"

	"github.com/maro14/fauxdoorz/pkg/config"
)

// Session is the authenticated caller's identity, extracted from a verified
// token and passed explicitly into request handling. Expiry is checked
// server-side on every request; nothing is cached between calls.
type Session struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s.Role == config.RoleAdmin
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

type sessionContextKey struct{}

func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// FromContext returns the session placed by the auth middleware, or nil for
// unauthenticated requests.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
