package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeIssuer serves just enough of an OIDC issuer for discovery, the token
// endpoint and the userinfo endpoint.
type fakeIssuer struct {
	*httptest.Server
	email string
}

func newFakeIssuer(t *testing.T, email string) *fakeIssuer {
	t.Helper()

	f := &fakeIssuer{email: email}
	mux := http.NewServeMux()

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"issuer":                                f.URL,
			"authorization_endpoint":                f.URL + "/o/oauth2/v2/auth",
			"token_endpoint":                        f.URL + "/token",
			"userinfo_endpoint":                     f.URL + "/v1/userinfo",
			"jwks_uri":                              f.URL + "/oauth2/v3/certs",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})

	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Form.Get("code") != "good-code" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
			return
		}
		if r.Form.Get("code_verifier") == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("/v1/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"sub":            "1098",
			"email":          f.email,
			"email_verified": true,
			"name":           "Ada Lovelace",
		})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newProvider(t *testing.T, issuer *fakeIssuer) *Provider {
	t.Helper()

	p, err := New(context.Background(), Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/connect/google/check",
		Issuer:       issuer.URL,
	})
	require.NoError(t, err)
	return p
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{ClientID: "id"})
	assert.ErrorContains(t, err, "missing required fields")
}

func TestAuthCodeURLRequestsEmailAndProfileWithLoginPrompt(t *testing.T) {
	p := newProvider(t, newFakeIssuer(t, "ada@example.com"))

	raw := p.AuthCodeURL("state-xyz", "challenge-abc")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.True(t, strings.HasSuffix(u.Path, "/o/oauth2/v2/auth"))
	assert.ElementsMatch(t, []string{"email", "profile"}, strings.Fields(q.Get("scope")))
	assert.Equal(t, "login", q.Get("prompt"))
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "challenge-abc", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "client-id", q.Get("client_id"))
}

func TestExchangeAndFetchIdentity(t *testing.T) {
	p := newProvider(t, newFakeIssuer(t, "ada@example.com"))
	ctx := context.Background()

	token, err := p.Exchange(ctx, "good-code", "verifier")
	require.NoError(t, err)
	assert.Equal(t, "access-123", token.AccessToken)

	identity, err := p.FetchIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "google", identity.Provider)
	assert.Equal(t, "1098", identity.Subject)
	assert.Equal(t, "Ada Lovelace", identity.Name)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
}

func TestExchangeInvalidCode(t *testing.T) {
	p := newProvider(t, newFakeIssuer(t, "ada@example.com"))

	_, err := p.Exchange(context.Background(), "bad-code", "verifier")
	require.Error(t, err)

	var re *oauth2.RetrieveError
	assert.ErrorAs(t, err, &re)
}

func TestFetchIdentityWithoutEmail(t *testing.T) {
	p := newProvider(t, newFakeIssuer(t, ""))
	ctx := context.Background()

	token, err := p.Exchange(ctx, "good-code", "verifier")
	require.NoError(t, err)

	_, err = p.FetchIdentity(ctx, token)
	assert.ErrorContains(t, err, "missing email")
}

func TestFetchIdentityRejectedToken(t *testing.T) {
	p := newProvider(t, newFakeIssuer(t, "ada@example.com"))

	_, err := p.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "stolen", TokenType: "Bearer"})
	assert.ErrorContains(t, err, "userinfo request failed")
}
