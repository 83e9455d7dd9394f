// Package web renders the server-side pages. Every page goes through the
// UI session before it is written, so the markup a browser receives
// already carries the persisted theme and the activated widget state.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"portal/internal/ui"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	PageLogin = "login"
	PageHome  = "home"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoginPage is rendered at /login.
type LoginPage struct {
	Flashes    map[string][]string
	LastError  string
	ConnectURL string
}

// HomePage is rendered at / for signed-in users.
type HomePage struct {
	UserID string
	Email  string
}

type view struct {
	Lang string
	Page any
}

// Prerender adjusts the booted UI session before the page is written.
type Prerender func(*ui.Session)

// OpenModal renders the page with the modal matching sel shown and any
// other modal closed.
func OpenModal(sel string) Prerender {
	return func(s *ui.Session) {
		s.HideAllModals()
		s.ShowModal(sel)
	}
}

type Renderer struct {
	pages  map[string]*template.Template
	secure bool
	log    *zap.Logger
}

// NewRenderer parses every page against the shared layout. secure marks
// the preference cookies the UI session may write.
func NewRenderer(secure bool, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{PageLogin, PageHome} {
		t, err := template.New("layout.html").ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages, secure: secure, log: log}, nil
}

// Render writes the named page with status.
func (r *Renderer) Render(c *gin.Context, status int, name string, lang language.Tag, data any, pre ...Prerender) {
	out, err := r.render(c, name, lang, data, pre)
	if err != nil {
		r.log.Error("render page failed", zap.String("page", name), zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", out)
}

func (r *Renderer) render(c *gin.Context, name string, lang language.Tag, data any, pre []Prerender) ([]byte, error) {
	t, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, view{Lang: lang.String(), Page: data}); err != nil {
		return nil, err
	}

	doc, err := ui.Parse(&buf)
	if err != nil {
		return nil, err
	}

	storage := ui.NewCookieStorage(c.Writer, c.Request, r.secure)
	sess := ui.NewSession(doc, nil, storage, ui.WithLogger(r.log))
	sess.Boot()
	if len(pre) > 0 {
		for _, fn := range pre {
			fn(sess)
		}
		sess.Reinitialize()
	}

	var out bytes.Buffer
	if err := doc.Render(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
