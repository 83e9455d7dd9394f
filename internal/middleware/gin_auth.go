package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys set on the gin context for authenticated requests.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

// GinRequireAuth runs RequireAuth inside a gin chain. When the entry point
// answers instead of letting the request through, the chain is aborted.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		admitted := false

		inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			admitted = true
			c.Request = r
			if id, ok := IdentityFromContext(r.Context()); ok {
				c.Set(ContextUserID, id.UserID)
				c.Set(ContextEmail, id.Email)
			}
			c.Next()
		})

		auth.RequireAuth(inner).ServeHTTP(c.Writer, c.Request)

		if !admitted {
			c.Abort()
		}
	}
}
