package app

import (
	"context"
	"net/http"

	"portal/internal/auth/authenticator"
	"portal/internal/auth/handler"
	"portal/internal/auth/provider"
	"portal/internal/auth/provider/google"
	"portal/internal/auth/resolver"
	"portal/internal/config"
	"portal/internal/locale"
	"portal/internal/logger"
	"portal/internal/middleware"
	"portal/internal/session"
	"portal/internal/user"
	"portal/internal/web"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the router needs. Tests build them by hand;
// setupHTTP builds them from config.
type Deps struct {
	Providers    *provider.Registry
	Users        user.Finder
	SessionStore session.Store
	Locale       locale.Settings
	Config       config.Config
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	settings, err := locale.Boot(cfg.DefaultLocale, cfg.DefaultTimezone)
	if err != nil {
		return nil, nil, err
	}

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	googleProvider, err := google.New(ctx, google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Issuer:       cfg.GoogleIssuer,
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router, err := NewRouter(Deps{
		Providers:    provider.NewRegistry(googleProvider),
		Users:        user.NewPostgresStore(infra.DB),
		SessionStore: infra.Sessions,
		Locale:       settings,
		Config:       cfg,
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}

// NewRouter assembles middleware, the callback firewall and the routes.
func NewRouter(d Deps) (*gin.Engine, error) {
	authn := authenticator.New(
		d.Providers,
		resolver.NewEmailResolver(d.Users),
		authenticator.Config{Provider: "google"},
	)

	sessions := session.NewManager(d.SessionStore, d.Config.SessionTTL, session.CookieOptions{
		Secure:   d.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	pages, err := web.NewRenderer(d.Config.CookieSecure, logger.L())
	if err != nil {
		return nil, err
	}

	authHandler := handler.NewHandler(authn, sessions, pages, d.Config.CookieSecure)
	authMiddleware := middleware.NewAuthMiddleware(sessions, authn)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger.L()))
	router.Use(middleware.Recovery(logger.L()))
	router.Use(middleware.Locale(d.Locale))
	router.Use(middleware.Firewall(authn, authHandler.Callback))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(router, middleware.GinRequireAuth(authMiddleware))
	web.NewThemeHandler(d.Config.CookieSecure, logger.L()).RegisterRoutes(router)

	return router, nil
}
