package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, secure bool) (*Manager, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	return NewManager(store, time.Hour, CookieOptions{Secure: secure}), store
}

func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManagerStartAndLoad(t *testing.T) {
	m, _ := newTestManager(t, true)

	sess, err := m.New("user-1", "ada@example.com")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(context.Background(), rec, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)

	loaded, err := m.Load(requestWithCookies(rec))
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "user-1", loaded.UserID)
}

func TestManagerInsecureCookieName(t *testing.T) {
	m, _ := newTestManager(t, false)

	rec := httptest.NewRecorder()
	sess, err := m.LoadOrStart(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, InsecureCookieName, cookies[0].Name)
}

func TestManagerLoadWithoutCookie(t *testing.T) {
	m, _ := newTestManager(t, true)

	sess, err := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestManagerLoadExpiredDeletes(t *testing.T) {
	m, store := newTestManager(t, true)

	sess, err := m.New("user-1", "")
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(context.Background(), rec, sess))

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	loaded, err := m.Load(requestWithCookies(rec))
	require.NoError(t, err)
	assert.Nil(t, loaded)

	stored, err := store.Get(context.Background(), sess.SessionID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestManagerDestroy(t *testing.T) {
	m, store := newTestManager(t, true)

	sess, err := m.New("user-1", "")
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(context.Background(), rec, sess))

	out := httptest.NewRecorder()
	require.NoError(t, m.Destroy(out, requestWithCookies(rec)))

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	stored, err := store.Get(context.Background(), sess.SessionID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestManagerDiscardKeepsCookie(t *testing.T) {
	m, store := newTestManager(t, true)
	ctx := context.Background()

	sess, err := m.New("", "")
	require.NoError(t, err)
	require.NoError(t, m.Start(ctx, httptest.NewRecorder(), sess))

	require.NoError(t, m.Discard(ctx, sess.SessionID))
	require.NoError(t, m.Discard(ctx, ""))

	got, err := store.Get(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
