package provider

import (
	"context"

	"portal/internal/auth"

	"golang.org/x/oauth2"
)

// OAuthProvider is one external sign-in service. It reports who the user
// is at the provider; mapping that to a local account happens elsewhere.
type OAuthProvider interface {
	Name() string

	// AuthCodeURL builds the consent URL for the given state and S256
	// code challenge.
	AuthCodeURL(state, codeChallenge string) string

	Exchange(ctx context.Context, code, codeVerifier string) (*oauth2.Token, error)

	// FetchIdentity reads the profile behind token.
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*auth.Identity, error)
}
