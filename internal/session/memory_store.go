package session

import (
	"context"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore keeps sessions in process. Used for local development and
// tests; sessions do not survive a restart.
type MemoryStore struct {
	cache *ttlcache.Cache[string, Session]
}

func NewMemoryStore() *MemoryStore {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, Session](),
	)

	go cache.Start()

	return &MemoryStore{cache: cache}
}

func (m *MemoryStore) Create(_ context.Context, s Session) error {
	ttl, err := lifetime(s)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return ErrExpired
	}
	if m.cache.Has(s.SessionID) {
		return ErrExists
	}

	m.cache.Set(s.SessionID, clone(s), ttl)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	item := m.cache.Get(sessionID)
	if item == nil {
		return nil, nil
	}

	s := clone(item.Value())
	return &s, nil
}

func (m *MemoryStore) Update(_ context.Context, s Session) error {
	ttl, err := lifetime(s)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		m.cache.Delete(s.SessionID)
		return nil
	}
	if !m.cache.Has(s.SessionID) {
		return nil
	}

	m.cache.Set(s.SessionID, clone(s), ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.cache.Delete(sessionID)
	return nil
}

// Close stops the expiry goroutine.
func (m *MemoryStore) Close() error {
	m.cache.Stop()
	return nil
}

// clone keeps callers from sharing the flash map with the cache.
func clone(s Session) Session {
	if s.Flashes != nil {
		s.Flashes = s.PeekFlashes()
	}
	return s
}
