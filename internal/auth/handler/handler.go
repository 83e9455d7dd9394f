package handler

import (
	"net/http"

	"portal/internal/auth"
	"portal/internal/auth/authenticator"
	"portal/internal/locale"
	"portal/internal/logger"
	"portal/internal/middleware"
	"portal/internal/session"
	"portal/internal/user"
	"portal/internal/web"

	"github.com/gin-gonic/gin"
)

const (
	homePath   = "/"
	loginPath  = "/login"
	logoutPath = "/logout"

	accountPanel = "account"
	accountModal = "#accountModal"
)

type Handler struct {
	authn    *authenticator.Authenticator
	sessions *session.Manager
	pages    *web.Renderer
	secure   bool
}

func NewHandler(
	authn *authenticator.Authenticator,
	sessions *session.Manager,
	pages *web.Renderer,
	secure bool,
) *Handler {
	return &Handler{
		authn:    authn,
		sessions: sessions,
		pages:    pages,
		secure:   secure,
	}
}

// RegisterRoutes mounts the auth and page routes. protected guards the
// home page.
func (h *Handler) RegisterRoutes(r *gin.Engine, protected gin.HandlerFunc) {
	r.GET(h.authn.ConnectPath(), h.connect)
	r.GET(h.authn.CheckPath(), h.check)
	r.GET(loginPath, h.login)
	r.POST(logoutPath, h.Logout)
	r.GET(homePath, protected, h.home)

	for _, route := range r.Routes() {
		logger.Info("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}

// connect sends the user to the provider consent screen.
func (h *Handler) connect(c *gin.Context) {
	state, err := h.issueState(c)
	if err != nil {
		h.internalError(c, "state generation failed", err)
		return
	}

	challenge, err := h.issuePKCE(c)
	if err != nil {
		h.internalError(c, "pkce generation failed", err)
		return
	}

	authURL, err := h.authn.Redirect(state, challenge)
	if err != nil {
		h.internalError(c, "provider unavailable", err)
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// check only runs if the firewall did not claim the callback.
func (h *Handler) check(c *gin.Context) {
	c.String(http.StatusInternalServerError, "the google authenticator is not active on this route")
}

// Callback completes the handshake. The firewall calls it for every
// request to the check path.
func (h *Handler) Callback(c *gin.Context) {
	cb := authenticator.CallbackFromRequest(c.Request)
	cb.ExpectedState = stateFromCookie(c)
	cb.CodeVerifier = verifierFromCookie(c)
	h.clearFlowCookies(c)

	out := h.authn.Authenticate(c.Request.Context(), cb)
	if !out.Succeeded() {
		h.onFailure(c, out)
		return
	}
	h.onSuccess(c, out.User)
}

// onSuccess replaces whatever session the browser had with a fresh one
// bound to the user.
func (h *Handler) onSuccess(c *gin.Context, u user.User) {
	ctx := c.Request.Context()

	if previous := h.sessions.CookieOptions().Read(c.Request); previous != "" {
		if err := h.sessions.Discard(ctx, previous); err != nil {
			logger.Warn("previous session not discarded", map[string]any{
				"error": err.Error(),
			})
		}
	}

	sess, err := h.sessions.New(u.ID.String(), u.Email)
	if err != nil {
		h.internalError(c, "failed to create session", err)
		return
	}
	if err := h.sessions.Start(ctx, c.Writer, sess); err != nil {
		h.internalError(c, "failed to persist session", err)
		return
	}

	logger.Info("login succeeded", map[string]any{
		"user_id": u.ID.String(),
		"ip":      c.ClientIP(),
	})

	c.Redirect(http.StatusFound, homePath)
}

// onFailure records the error for the login page. All error kinds are
// shown the same way.
func (h *Handler) onFailure(c *gin.Context, out authenticator.Outcome) {
	authErr := out.Err
	if authErr == nil {
		authErr = auth.GenericError(nil)
	}

	logger.Warn("login failed", map[string]any{
		"kind":  authErr.Kind.String(),
		"error": authErr.Error(),
		"trace": out.Trace,
		"ip":    c.ClientIP(),
	})

	sess, err := h.sessions.LoadOrStart(c.Writer, c.Request)
	if err != nil {
		logger.Error("failure notice not stored", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	key := authErr.MessageKey()
	sess.AuthError = key
	sess.AddFlash(session.FlashDanger, locale.AuthFailureNotice(middleware.LocaleFromGin(c), key))

	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		logger.Error("failure notice not stored", map[string]any{
			"error": err.Error(),
		})
	}

	c.Redirect(http.StatusFound, loginPath)
}

// login renders the sign-in page. Flashes and the last auth error are
// shown once and then dropped from the session.
func (h *Handler) login(c *gin.Context) {
	page := web.LoginPage{ConnectURL: h.authn.ConnectPath()}

	sess, err := h.sessions.Load(c.Request)
	if err != nil {
		logger.Error("session load failed", map[string]any{
			"error": err.Error(),
			"path":  c.Request.URL.Path,
		})
	}

	if sess != nil && sess.Dirty() {
		page.Flashes = sess.ConsumeFlashes()
		if key := sess.ConsumeAuthError(); key != "" {
			page.LastError = locale.Printer(middleware.LocaleFromGin(c)).Sprintf(key)
		}
		if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
			logger.Error("session save failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	h.pages.Render(c, http.StatusOK, web.PageLogin, middleware.LocaleFromGin(c), page)
}

// home renders the signed-in page. ?panel=account opens the account
// modal without client scripts.
func (h *Handler) home(c *gin.Context) {
	id, _ := middleware.IdentityFromContext(c.Request.Context())

	var pre []web.Prerender
	if c.Query("panel") == accountPanel {
		pre = append(pre, web.OpenModal(accountModal))
	}

	h.pages.Render(c, http.StatusOK, web.PageHome, middleware.LocaleFromGin(c), web.HomePage{
		UserID: id.UserID,
		Email:  id.Email,
	}, pre...)
}

// Logout is idempotent: it always clears the cookie and lands on the
// login page.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c.Writer, c.Request); err != nil {
		logger.Warn("session delete failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("logout", map[string]any{
		"ip": c.ClientIP(),
	})

	c.Redirect(http.StatusFound, loginPath)
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	logger.Error(msg, map[string]any{
		"error": err.Error(),
		"path":  c.Request.URL.Path,
	})
	c.String(http.StatusInternalServerError, msg)
}
