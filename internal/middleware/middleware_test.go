package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portal/internal/locale"
	"portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type redirectEntry struct{}

func (redirectEntry) Start(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/connect/google", http.StatusTemporaryRedirect)
}

type pathInterceptor string

func (p pathInterceptor) Supports(r *http.Request) bool { return r.URL.Path == string(p) }

func newSessions(t *testing.T) *session.Manager {
	t.Helper()
	store := session.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return session.NewManager(store, time.Hour, session.CookieOptions{Secure: true})
}

func protectedRouter(sessions *session.Manager) *gin.Engine {
	r := gin.New()
	auth := NewAuthMiddleware(sessions, redirectEntry{})
	r.GET("/", GinRequireAuth(auth), func(c *gin.Context) {
		c.String(http.StatusOK, "hello "+c.GetString("email"))
	})
	return r
}

func TestRequireAuthRedirectsTemporarilyWithoutSession(t *testing.T) {
	r := protectedRouter(newSessions(t))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/connect/google", rec.Header().Get("Location"))
	assert.NotContains(t, rec.Body.String(), "hello")
}

func TestRequireAuthRedirectsAnonymousSession(t *testing.T) {
	sessions := newSessions(t)
	r := protectedRouter(sessions)

	anon, err := sessions.New("", "")
	require.NoError(t, err)
	started := httptest.NewRecorder()
	require.NoError(t, sessions.Start(context.Background(), started, anon))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range started.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
}

func TestRequireAuthPassesIdentity(t *testing.T) {
	sessions := newSessions(t)
	r := protectedRouter(sessions)

	sess, err := sessions.New("user-1", "ada@example.com")
	require.NoError(t, err)
	started := httptest.NewRecorder()
	require.NoError(t, sessions.Start(context.Background(), started, sess))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range started.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello ada@example.com", rec.Body.String())
}

func TestFirewallClaimsBeforeRouteHandler(t *testing.T) {
	r := gin.New()
	r.Use(Firewall(pathInterceptor("/connect/google/check"), func(c *gin.Context) {
		c.String(http.StatusFound, "claimed")
	}))
	r.GET("/connect/google/check", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "handler ran")
	})
	r.GET("/other", func(c *gin.Context) {
		c.String(http.StatusOK, "other")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/connect/google/check", nil))
	assert.Equal(t, "claimed", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, "other", rec.Body.String())
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	assert.Equal(t, 1, logs.FilterMessage("request completed").Len())
}

func TestLocaleMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(Locale(locale.Settings{Tag: language.French}))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, LocaleFromGin(c).String())
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "fr", rec.Body.String())
}
