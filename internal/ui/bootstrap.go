package ui

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Marker selectors. Elements carrying them are activated by Initialize.
const (
	SelectorFormOutline = ".form-outline"
	SelectorTooltip     = `[data-mdb-toggle="tooltip"]`
	SelectorPopover     = `[data-mdb-toggle="popover"]`
	SelectorCollapse    = `[data-mdb-toggle="collapse"]`
	SelectorAccordion   = ".accordion"
	SelectorTab         = `[data-mdb-toggle="tab"]`
	SelectorPill        = `[data-mdb-toggle="pill"]`
	SelectorModal       = `[data-mdb-toggle="modal"]`
	SelectorOffcanvas   = `[data-mdb-toggle="offcanvas"]`
	SelectorDropdown    = `[data-mdb-toggle="dropdown"]`
	SelectorToastButton = "#showToast"
	SelectorToast       = "#liveToast"
	SelectorAnchor      = `a[href^="#"]:not([href="#"])`

	formControls = "input, textarea, select"
)

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now, which names dynamic modals.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

type bindingKey struct {
	node *html.Node
	name string
}

// Session is the UI state of one document: its widget kit, its theme
// manager, and the handlers activation bound. Activation is idempotent:
// re-running it replaces handlers and widget instances instead of
// stacking them.
type Session struct {
	doc   *Document
	kit   Kit
	theme *ThemeManager
	log   *zap.Logger
	now   func() time.Time

	bindings map[bindingKey]func()
}

func NewSession(doc *Document, kit Kit, storage Storage, opts ...Option) *Session {
	if kit == nil {
		kit = NewKit(doc)
	}
	s := &Session{
		doc:      doc,
		kit:      kit,
		theme:    NewThemeManager(doc, storage),
		log:      zap.NewNop(),
		now:      time.Now,
		bindings: make(map[bindingKey]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Document() *Document  { return s.doc }
func (s *Session) Kit() Kit             { return s.kit }
func (s *Session) Theme() *ThemeManager { return s.theme }

// Boot runs once per page load: theme first, then widgets, anchors and
// the theme toggle.
func (s *Session) Boot() {
	s.theme.Init()
	s.Initialize()
	s.setupSmoothScroll()

	toggle := s.theme.EnsureToggle()
	s.bind(toggle, "theme-toggle", "click", func(*Event) {
		s.theme.Toggle()
	})
}

// Reinitialize activates markup inserted after Boot.
func (s *Session) Reinitialize() {
	s.Initialize()
}

// Initialize activates every marker element currently in the document.
func (s *Session) Initialize() {
	s.initInputs()
	s.initSimple(SelectorTooltip, KindTooltip, Options{})
	s.initSimple(SelectorPopover, KindPopover, Options{})
	s.initSimple(SelectorCollapse, KindCollapse, Options{Toggle: false})
	s.initAccordions()
	s.initSimple(SelectorTab, KindTab, Options{})
	s.initSimple(SelectorPill, KindTab, Options{})
	s.initModals()
	s.initSimple(SelectorOffcanvas, KindOffcanvas, Options{})
	s.initToast()
	s.initDropdowns()

	s.log.Debug("ui widgets initialized")
}

// bind attaches fn under name, removing whatever was bound under the same
// name and node before.
func (s *Session) bind(n *html.Node, name, typ string, fn Listener) {
	key := bindingKey{node: n, name: name}
	if remove, ok := s.bindings[key]; ok {
		remove()
	}
	s.bindings[key] = s.doc.AddEventListener(n, typ, fn)
}

// replace disposes any live instance of kind on el and creates a new one.
func (s *Session) replace(kind Kind, el *html.Node, opts Options) Widget {
	if old := s.kit.Instance(kind, el); old != nil {
		old.Dispose()
	}
	return s.kit.New(kind, el, opts)
}

func (s *Session) initSimple(sel string, kind Kind, opts Options) {
	for _, el := range s.doc.QueryAll(sel) {
		s.replace(kind, el, opts)
	}
}

func (s *Session) initInputs() {
	s.activateInputs(s.doc.QueryAll(SelectorFormOutline))
}

// activateInputs marks floating-label wrappers active when their control
// holds a value, now and on every input event.
func (s *Session) activateInputs(outlines []*html.Node) {
	for _, outline := range outlines {
		outline := outline
		s.replace(KindInput, outline, Options{}).Init()

		control := QueryIn(outline, "input, textarea")
		if control == nil {
			continue
		}
		if Value(control) != "" {
			s.doc.AddClass(outline, "active")
		}

		s.bind(control, "floating-label", "input", func(e *Event) {
			s.doc.ToggleClass(outline, "active", Value(e.Target) != "")
		})
	}
}

func (s *Session) initAccordions() {
	for _, accordion := range s.doc.QueryAll(SelectorAccordion) {
		accordion := accordion
		buttons := QueryAllIn(accordion, ".accordion-button")
		for _, btn := range buttons {
			btn := btn
			s.doc.SetStyle(btn, "transition", "transform 0.2s ease-in-out")
			s.bind(btn, "accordion", "click", func(*Event) {
				s.toggleAccordionItem(accordion, btn, buttons)
			})
		}
	}
}

// toggleAccordionItem flips the panel btn targets. Sibling buttons are
// only marked collapsed; their panels stay as they are.
func (s *Session) toggleAccordionItem(accordion, btn *html.Node, buttons []*html.Node) {
	target := TargetSelector(btn)
	panel := s.doc.Query(target)
	if panel == nil {
		return
	}

	c := s.kit.Instance(KindCollapse, panel)
	if c == nil {
		c = s.kit.New(KindCollapse, panel, Options{Toggle: false, Parent: accordion})
	}

	if HasClass(panel, "show") {
		c.Hide()
		s.doc.AddClass(btn, "collapsed")
		s.doc.SetAttr(btn, "aria-expanded", "false")
	} else {
		c.Show()
		s.doc.RemoveClass(btn, "collapsed")
		s.doc.SetAttr(btn, "aria-expanded", "true")
	}

	for _, other := range buttons {
		if other == btn || TargetSelector(other) == target {
			continue
		}
		s.doc.AddClass(other, "collapsed")
		s.doc.SetAttr(other, "aria-expanded", "false")
	}
}

func (s *Session) initModals() {
	seen := make(map[*html.Node]bool)
	for _, trigger := range s.doc.QueryAll(SelectorModal) {
		target := s.doc.Query(TargetSelector(trigger))
		if target == nil {
			continue
		}

		if !seen[target] {
			seen[target] = true
			s.replace(KindModal, target, ModalDefaults())
			s.bindModalEvents(target)
		}
		s.bind(trigger, "modal-trigger", "click", func(e *Event) {
			e.PreventDefault()
			if m := s.kit.Instance(KindModal, target); m != nil {
				m.Show()
			}
		})
	}
}

// bindModalEvents logs the modal lifecycle and, once shown, re-activates
// inputs inside it and focuses its first control.
func (s *Session) bindModalEvents(modal *html.Node) {
	s.bind(modal, "modal-show", KindModal.ShowEvent(), func(*Event) {
		s.log.Debug("modal opening", zap.String("id", idOf(modal)))
	})
	s.bind(modal, "modal-shown", KindModal.ShownEvent(), func(*Event) {
		s.log.Debug("modal opened", zap.String("id", idOf(modal)))
		s.activateInputs(QueryAllIn(modal, SelectorFormOutline))
		if first := QueryIn(modal, formControls); first != nil {
			s.doc.Focus(first)
		}
	})
	s.bind(modal, "modal-hide", KindModal.HideEvent(), func(*Event) {
		s.log.Debug("modal closing", zap.String("id", idOf(modal)))
	})
	s.bind(modal, "modal-hidden", KindModal.HiddenEvent(), func(*Event) {
		s.log.Debug("modal closed", zap.String("id", idOf(modal)))
	})
}

func (s *Session) initToast() {
	trigger := s.doc.Query(SelectorToastButton)
	toast := s.doc.Query(SelectorToast)
	if trigger == nil || toast == nil {
		return
	}
	s.bind(trigger, "toast-trigger", "click", func(*Event) {
		s.replace(KindToast, toast, Options{}).Show()
	})
}

func (s *Session) initDropdowns() {
	for _, toggle := range s.doc.QueryAll(SelectorDropdown) {
		s.replace(KindDropdown, toggle, DropdownDefaults())

		menu := NextElementSibling(toggle)
		if menu == nil || !HasClass(menu, "dropdown-menu") {
			continue
		}
		s.bind(toggle, "dropdown-show", KindDropdown.ShowEvent(), func(*Event) {
			s.doc.RequestAnimationFrame(func() { s.doc.AddClass(menu, "show") })
		})
		s.bind(toggle, "dropdown-hide", KindDropdown.HideEvent(), func(*Event) {
			s.doc.RemoveClass(menu, "show")
		})
	}
}

// setupSmoothScroll scrolls to in-page anchors. Anchors that toggle a
// widget keep their default behaviour.
func (s *Session) setupSmoothScroll() {
	for _, a := range s.doc.QueryAll(SelectorAnchor) {
		a := a
		s.bind(a, "smooth-scroll", "click", func(e *Event) {
			if _, ok := Attr(a, "data-mdb-toggle"); ok {
				return
			}
			href, _ := Attr(a, "href")
			target := s.doc.Query(href)
			if target == nil {
				return
			}
			e.PreventDefault()
			s.doc.ScrollIntoView(target)
		})
	}
}

func idOf(n *html.Node) string {
	v, _ := Attr(n, "id")
	return v
}
