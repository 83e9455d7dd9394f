package ui

import (
	"net/http"
	"sync"
	"time"
)

// Storage persists small string preferences, the way a browser's
// localStorage does.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// PreferenceMaxAge is how long a preference cookie lives.
const PreferenceMaxAge = 365 * 24 * time.Hour

// CookieStorage keeps preferences in cookies so server-side rendering can
// read them. The cookies are readable by scripts on purpose.
type CookieStorage struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
	set    map[string]string
}

func NewCookieStorage(w http.ResponseWriter, r *http.Request, secure bool) *CookieStorage {
	return &CookieStorage{r: r, w: w, secure: secure, set: make(map[string]string)}
}

func (c *CookieStorage) Get(key string) (string, bool) {
	if v, ok := c.set[key]; ok {
		return v, true
	}
	if c.r == nil {
		return "", false
	}
	ck, err := c.r.Cookie(key)
	if err != nil {
		return "", false
	}
	return ck.Value, true
}

func (c *CookieStorage) Set(key, value string) {
	c.set[key] = value
	if c.w == nil {
		return
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(PreferenceMaxAge / time.Second),
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
