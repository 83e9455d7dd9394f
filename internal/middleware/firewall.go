package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Interceptor claims requests before routing reaches their handler.
type Interceptor interface {
	Supports(r *http.Request) bool
}

// Firewall hands requests claimed by the interceptor to onClaim and stops
// the chain, so the route's own handler never runs for them.
func Firewall(i Interceptor, onClaim gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !i.Supports(c.Request) {
			c.Next()
			return
		}

		onClaim(c)
		c.Abort()
	}
}
