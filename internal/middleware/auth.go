package middleware

import (
	"context"
	"net/http"

	"portal/internal/logger"
	"portal/internal/session"
)

// unexported, collision-proof context key
type identityContextKeyType struct{}

var identityKey = identityContextKeyType{}

// Identity is the authenticated principal attached to the request.
type Identity struct {
	UserID string
	Email  string
}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// EntryPoint decides what an unauthenticated request sees.
type EntryPoint interface {
	Start(w http.ResponseWriter, r *http.Request)
}

type AuthMiddleware struct {
	Sessions   *session.Manager
	EntryPoint EntryPoint
}

func NewAuthMiddleware(sessions *session.Manager, entry EntryPoint) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions, EntryPoint: entry}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Load returns nil for missing, unknown and expired sessions.
		sess, err := a.Sessions.Load(r)
		if err != nil {
			logger.Error("session load failed", map[string]any{
				"error": err.Error(),
				"path":  r.URL.Path,
			})
		}

		if !sess.Authenticated() {
			a.EntryPoint.Start(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, Identity{
			UserID: sess.UserID,
			Email:  sess.Email,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
