package google

import (
	"context"
	"errors"
	"fmt"

	"portal/internal/auth"
	"portal/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const (
	providerName  = "google"
	DefaultIssuer = "https://accounts.google.com"
)

// Scopes requested on the consent screen. Nothing else is needed to read
// the account email.
var Scopes = []string{"email", "profile"}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Issuer is the discovery base; empty means DefaultIssuer.
	Issuer string
}

type Provider struct {
	oauthConfig *oauth2.Config
	oidc        *oidc.Provider
}

func New(ctx context.Context, cfg Config) (*Provider, error) {

	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes:       append([]string(nil), Scopes...),
	}

	return &Provider{
		oauthConfig: oauthCfg,
		oidc:        oidcProvider,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the consent URL. prompt=login forces Google to ask
// for credentials again even with an active Google session.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "login"),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *Provider) Exchange(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*oauth2.Token, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	if !token.Valid() {
		return nil, errors.New("google returned an unusable access token")
	}

	return token, nil
}

func (p *Provider) FetchIdentity(
	ctx context.Context,
	token *oauth2.Token,
) (*auth.Identity, error) {

	if token == nil {
		return nil, errors.New("google access token is nil")
	}

	info, err := p.oidc.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("google userinfo request failed: %w", err)
	}

	if info.Email == "" {
		return nil, errors.New("google userinfo missing email")
	}

	var profile struct {
		Name string `json:"name"`
	}
	if err := info.Claims(&profile); err != nil {
		return nil, fmt.Errorf("google userinfo claims: %w", err)
	}

	logger.Info("google profile fetched", map[string]any{
		"subject_present": info.Subject != "",
		"email_verified":  info.EmailVerified,
	})

	return &auth.Identity{
		Provider:      providerName,
		Subject:       info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          profile.Name,
	}, nil
}
