package web

import (
	"net/http"
	"net/url"
	"strings"

	"portal/internal/ui"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ThemePath       = "/theme"
	ThemeTogglePath = "/theme/toggle"
)

// ThemeHandler persists the light/dark preference through the same theme
// manager the renderer boots, then sends the browser back where it was.
type ThemeHandler struct {
	secure bool
	log    *zap.Logger
}

func NewThemeHandler(secure bool, log *zap.Logger) *ThemeHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ThemeHandler{secure: secure, log: log}
}

func (h *ThemeHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST(ThemeTogglePath, h.Toggle)
	r.POST(ThemePath, h.Set)
}

// Toggle flips the stored theme.
func (h *ThemeHandler) Toggle(c *gin.Context) {
	themes, err := h.manager(c)
	if err != nil {
		h.log.Error("theme document failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	unsubscribe := themes.Subscribe(func(t ui.Theme) {
		h.log.Info("theme changed", zap.String("theme", string(t)))
	})
	defer unsubscribe()

	themes.Toggle()
	c.Redirect(http.StatusSeeOther, backTo(c.Request))
}

// Set stores the theme named by the "theme" form value.
func (h *ThemeHandler) Set(c *gin.Context) {
	themes, err := h.manager(c)
	if err != nil {
		h.log.Error("theme document failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	if !themes.Set(ui.Theme(c.PostForm("theme"))) {
		c.String(http.StatusBadRequest, "unknown theme")
		return
	}
	c.Redirect(http.StatusSeeOther, backTo(c.Request))
}

// manager loads the persisted theme into a blank document so Toggle has a
// current value to flip.
func (h *ThemeHandler) manager(c *gin.Context) (*ui.ThemeManager, error) {
	doc, err := ui.ParseString("<!DOCTYPE html><html><head></head><body></body></html>")
	if err != nil {
		return nil, err
	}
	storage := ui.NewCookieStorage(c.Writer, c.Request, h.secure)
	themes := ui.NewSession(doc, nil, storage, ui.WithLogger(h.log)).Theme()
	themes.Init()
	return themes, nil
}

// backTo returns the same-host path of the Referer, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || r.Referer() == "" {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	path := ref.RequestURI()
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return "/"
	}
	return path
}
