package auth

import "strings"

// Identity is what a provider asserts about the person who just signed
// in. Mapping it to an account is the resolver's job.
type Identity struct {
	Provider      string
	Subject       string // "sub": stable per provider
	Email         string
	EmailVerified bool
	Name          string
}

// LookupEmail is the email as accounts are matched on it.
func (i Identity) LookupEmail() string {
	return strings.ToLower(strings.TrimSpace(i.Email))
}
