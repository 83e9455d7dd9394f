package session

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Manager ties a Store to the cookie that carries the session id.
type Manager struct {
	store  Store
	ttl    time.Duration
	cookie CookieOptions
	now    func() time.Time
}

func NewManager(store Store, ttl time.Duration, cookie CookieOptions) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		cookie: cookie,
		now:    time.Now,
	}
}

func (m *Manager) CookieOptions() CookieOptions {
	return m.cookie
}

// Load returns the session named by the request cookie. A missing cookie,
// unknown id or expired session yields (nil, nil); expired sessions are
// deleted on the way.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	sessionID := m.cookie.Read(r)
	if sessionID == "" {
		return nil, nil
	}

	sess, err := m.store.Get(r.Context(), sessionID)
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	if sess == nil {
		return nil, nil
	}

	if sess.Expired(m.now()) {
		_ = m.store.Delete(r.Context(), sessionID)
		return nil, nil
	}

	return sess, nil
}

// New builds a session with a fresh id. It is not stored until Start.
func (m *Manager) New(userID, email string) (*Session, error) {
	sessionID, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := m.now()
	return &Session{
		SessionID: sessionID,
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}, nil
}

// Start persists a new session and issues its cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if err := m.store.Create(ctx, *s); err != nil {
		return fmt.Errorf("session: start: %w", err)
	}

	m.cookie.Issue(w, s.SessionID, s.ExpiresAt)
	return nil
}

// Save writes back changes to an existing session.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if err := m.store.Update(ctx, *s); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// LoadOrStart returns the current session, starting an anonymous one when
// the request has none.
func (m *Manager) LoadOrStart(w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess, err := m.Load(r)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}

	sess, err = m.New("", "")
	if err != nil {
		return nil, err
	}
	if err := m.Start(r.Context(), w, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Discard deletes a stored session and leaves the cookie alone. Login uses
// it before Start issues a cookie for the replacement.
func (m *Manager) Discard(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("session: discard: %w", err)
	}
	return nil
}

// Destroy deletes the session named by the request cookie (best effort)
// and clears the cookie. It is idempotent.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	var err error
	if sessionID := m.cookie.Read(r); sessionID != "" {
		err = m.store.Delete(r.Context(), sessionID)
	}

	m.cookie.Clear(w)
	return err
}
