// Package authenticator runs the provider login handshake as an explicit
// state machine: one method per transition, composed by Authenticate.
package authenticator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"portal/internal/auth"
	"portal/internal/auth/provider"
	"portal/internal/auth/resolver"
	"portal/internal/user"

	"golang.org/x/oauth2"
)

const (
	DefaultConnectPath = "/connect/google"
	DefaultCheckPath   = "/connect/google/check"
)

// Callback carries what the provider redirect brought back, plus the
// values this server stored before sending the user away.
type Callback struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string

	ExpectedState string
	CodeVerifier  string
}

// CallbackFromRequest reads the provider's query parameters. ExpectedState
// and CodeVerifier are filled in by the caller.
func CallbackFromRequest(r *http.Request) Callback {
	q := r.URL.Query()
	return Callback{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}
}

// Outcome is the typed result of a handshake. Exactly one of User or Err
// is meaningful, depending on State.
type Outcome struct {
	State auth.State
	User  user.User
	Err   *auth.Error
	Trace []auth.State
}

func (o Outcome) Succeeded() bool {
	return o.State == auth.StateAuthenticated
}

type Config struct {
	Provider    string
	ConnectPath string
	CheckPath   string
}

type Authenticator struct {
	providers *provider.Registry
	resolver  resolver.Resolver
	cfg       Config
}

func New(providers *provider.Registry, r resolver.Resolver, cfg Config) *Authenticator {
	if cfg.Provider == "" {
		cfg.Provider = "google"
	}
	if cfg.ConnectPath == "" {
		cfg.ConnectPath = DefaultConnectPath
	}
	if cfg.CheckPath == "" {
		cfg.CheckPath = DefaultCheckPath
	}

	return &Authenticator{
		providers: providers,
		resolver:  r,
		cfg:       cfg,
	}
}

func (a *Authenticator) ConnectPath() string { return a.cfg.ConnectPath }
func (a *Authenticator) CheckPath() string   { return a.cfg.CheckPath }

// Supports reports whether the request is the provider callback.
func (a *Authenticator) Supports(r *http.Request) bool {
	return r.URL.Path == a.cfg.CheckPath
}

// Start is the entry point for unauthenticated access to protected pages.
// The redirect is temporary so browsers never cache it.
func (a *Authenticator) Start(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, a.cfg.ConnectPath, http.StatusTemporaryRedirect)
}

// Redirect moves Unauthenticated -> ProviderRedirect by building the
// consent URL.
func (a *Authenticator) Redirect(state, codeChallenge string) (string, error) {
	p, err := a.providers.Get(a.cfg.Provider)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state, codeChallenge), nil
}

// Receive moves ProviderRedirect -> CallbackReceived.
func (a *Authenticator) Receive(cb Callback) error {
	if cb.Error != "" {
		return auth.ProviderExchangeError(
			fmt.Errorf("provider returned %s: %s", cb.Error, cb.ErrorDescription),
		)
	}
	if cb.State == "" || cb.ExpectedState == "" || cb.State != cb.ExpectedState {
		return auth.GenericError(errors.New("invalid state"))
	}
	if cb.Code == "" {
		return auth.GenericError(errors.New("missing authorization code"))
	}
	if cb.CodeVerifier == "" {
		return auth.GenericError(errors.New("missing pkce verifier"))
	}
	return nil
}

// Exchange moves CallbackReceived -> TokenExchanged.
func (a *Authenticator) Exchange(ctx context.Context, cb Callback) (*oauth2.Token, error) {
	p, err := a.providers.Get(a.cfg.Provider)
	if err != nil {
		return nil, auth.GenericError(err)
	}

	token, err := p.Exchange(ctx, cb.Code, cb.CodeVerifier)
	if err != nil {
		return nil, auth.ProviderExchangeError(err)
	}
	return token, nil
}

// Resolve moves TokenExchanged -> UserResolved. The token is used once to
// read the profile and then dropped. Unknown emails fail; accounts are
// never created here.
func (a *Authenticator) Resolve(ctx context.Context, token *oauth2.Token) (user.User, error) {
	p, err := a.providers.Get(a.cfg.Provider)
	if err != nil {
		return user.User{}, auth.GenericError(err)
	}

	identity, err := p.FetchIdentity(ctx, token)
	if err != nil {
		return user.User{}, auth.GenericError(err)
	}

	res, err := a.resolver.Resolve(ctx, identity)
	if err != nil {
		return user.User{}, auth.GenericError(err)
	}
	if !res.Found {
		return user.User{}, auth.UserNotFoundError(identity.Email)
	}

	return res.User, nil
}

// Authenticate runs the callback half of the handshake. Every failure
// funnels into a single AuthFailed outcome.
func (a *Authenticator) Authenticate(ctx context.Context, cb Callback) Outcome {
	out := Outcome{
		State: auth.StateProviderRedirect,
		Trace: []auth.State{auth.StateProviderRedirect},
	}

	advance := func(s auth.State) {
		out.State = s
		out.Trace = append(out.Trace, s)
	}
	fail := func(err error) Outcome {
		advance(auth.StateAuthFailed)
		out.Err = auth.AsError(err)
		return out
	}

	if err := a.Receive(cb); err != nil {
		return fail(err)
	}
	advance(auth.StateCallbackReceived)

	token, err := a.Exchange(ctx, cb)
	if err != nil {
		return fail(err)
	}
	advance(auth.StateTokenExchanged)

	u, err := a.Resolve(ctx, token)
	if err != nil {
		return fail(err)
	}
	advance(auth.StateUserResolved)

	out.User = u
	advance(auth.StateAuthenticated)
	return out
}
