package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMissingID = errors.New("session: missing session id")
	ErrExpired   = errors.New("session: expires_at must be in the future")
	ErrExists    = errors.New("session: id already in use")
)

// Session is server-side state keyed by the session cookie. A session
// without a UserID is anonymous: it exists only to carry flash notices
// and the last authentication error to the next page.
type Session struct {
	SessionID string              // unique session identifier
	UserID    string              // references users.id; empty when anonymous
	Email     string              // account email, for display
	AuthError string              // last authentication error message
	Flashes   map[string][]string // one-shot notices by kind
	CreatedAt time.Time
	ExpiresAt time.Time // absolute expiry time
}

// Authenticated reports whether the session is bound to a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// Expired reports whether the session is past its absolute expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Get returns (nil, nil) when the session does
// not exist. Create fails with ErrExists on an id collision; Update never
// recreates a session that is gone.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}

// lifetime is how long s may still be stored.
func lifetime(s Session) (time.Duration, error) {
	if s.SessionID == "" {
		return 0, ErrMissingID
	}
	return time.Until(s.ExpiresAt), nil
}
