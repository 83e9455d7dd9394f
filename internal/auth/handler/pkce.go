package handler

import (
	"crypto/sha256"
	"encoding/base64"

	"portal/internal/utils"

	"github.com/gin-gonic/gin"
)

const pkceCookieName = "__oauth_pkce"

// issuePKCE stores a fresh verifier and returns its S256 challenge.
func (h *Handler) issuePKCE(c *gin.Context) (string, error) {
	verifier, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}
	h.setFlowCookie(c, pkceCookieName, verifier)
	return pkceChallenge(verifier), nil
}

func pkceChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func verifierFromCookie(c *gin.Context) string {
	cookie, err := c.Request.Cookie(pkceCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
