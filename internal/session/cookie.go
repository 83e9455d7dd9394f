package session

import (
	"net/http"
	"time"
)

const (
	CookieName = "__Host-session"

	// InsecureCookieName is used when cookies are not marked Secure;
	// browsers reject __Host- cookies without the Secure flag.
	InsecureCookieName = "session"
)

// CookieOptions is the cookie policy for the session id. The zero value
// is usable: path "/", SameSite=Lax. The cookie is always HttpOnly.
type CookieOptions struct {
	Path     string
	Secure   bool
	SameSite http.SameSite
	Domain   string // leave empty with __Host- names
}

// Name returns the cookie name matching the Secure setting.
func (o CookieOptions) Name() string {
	if o.Secure {
		return CookieName
	}
	return InsecureCookieName
}

func (o CookieOptions) cookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     o.Name(),
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	}
	if c.Path == "" {
		c.Path = "/"
	}
	if c.SameSite == 0 {
		c.SameSite = http.SameSiteLaxMode
	}
	return c
}

// Issue sends the session id cookie, expiring with the session.
func (o CookieOptions) Issue(w http.ResponseWriter, sessionID string, expiresAt time.Time) {
	c := o.cookie(sessionID)
	c.Expires = expiresAt
	http.SetCookie(w, c)
}

// Clear tells the browser to drop the cookie.
func (o CookieOptions) Clear(w http.ResponseWriter) {
	c := o.cookie("")
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// Read returns the session id carried by the request, or "".
func (o CookieOptions) Read(r *http.Request) string {
	c, err := r.Cookie(o.Name())
	if err != nil {
		return ""
	}
	return c.Value
}
