package ui

import (
	"golang.org/x/net/html"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

const (
	// ThemeStorageKey is the persisted preference key.
	ThemeStorageKey = "theme"
	// ThemeAttr is set on the root element.
	ThemeAttr = "data-theme"
	// EventThemeChanged is dispatched on the window after a toggle, with
	// the new theme under Detail["theme"].
	EventThemeChanged = "themeChanged"

	themeToggleClass = "theme-toggle"
)

const (
	moonIcon = `<svg class="moon-icon" width="20" height="20" fill="none" stroke="currentColor" viewBox="0 0 24 24" aria-hidden="true"><path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M20.354 15.354A9 9 0 018.646 3.646 9.003 9.003 0 0012 21a9.003 9.003 0 008.354-5.646z"></path></svg>`
	sunIcon  = `<svg class="sun-icon" width="20" height="20" fill="none" stroke="currentColor" viewBox="0 0 24 24" aria-hidden="true"><circle cx="12" cy="12" r="4" stroke-width="2"></circle><path stroke-linecap="round" stroke-width="2" d="M12 2v2m0 16v2M4.93 4.93l1.41 1.41m11.32 11.32l1.41 1.41M2 12h2m16 0h2M4.93 19.07l1.41-1.41M17.66 6.34l1.41-1.41"></path></svg>`
)

// ThemeManager owns the light/dark preference for one document.
type ThemeManager struct {
	doc     *Document
	storage Storage

	subscribers map[int]func(Theme)
	nextSub     int
}

func NewThemeManager(doc *Document, storage Storage) *ThemeManager {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &ThemeManager{doc: doc, storage: storage, subscribers: make(map[int]func(Theme))}
}

// Init applies the persisted theme, defaulting to light when nothing
// valid is stored.
func (m *ThemeManager) Init() Theme {
	t := ThemeLight
	if saved, ok := m.storage.Get(ThemeStorageKey); ok && Theme(saved).Valid() {
		t = Theme(saved)
	}
	m.doc.SetAttr(m.doc.Root(), ThemeAttr, string(t))
	return t
}

// Current reads the theme from the root element.
func (m *ThemeManager) Current() Theme {
	v, _ := Attr(m.doc.Root(), ThemeAttr)
	return Theme(v)
}

// Toggle flips between light and dark, persists the result and notifies
// subscribers and window listeners.
func (m *ThemeManager) Toggle() Theme {
	next := ThemeLight
	if m.Current() == ThemeLight {
		next = ThemeDark
	}
	m.apply(next)

	for _, fn := range m.subscribers {
		fn(next)
	}
	m.doc.DispatchWindow(&Event{Type: EventThemeChanged, Detail: map[string]any{"theme": next}})
	return next
}

// Set applies t if it is a known theme. It does not notify.
func (m *ThemeManager) Set(t Theme) bool {
	if !t.Valid() {
		return false
	}
	m.apply(t)
	return true
}

func (m *ThemeManager) apply(t Theme) {
	m.doc.SetAttr(m.doc.Root(), ThemeAttr, string(t))
	m.storage.Set(ThemeStorageKey, string(t))
	m.refreshToggle()
}

// Subscribe registers fn for theme changes made by Toggle.
func (m *ThemeManager) Subscribe(fn func(Theme)) (unsubscribe func()) {
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	return func() { delete(m.subscribers, id) }
}

// EnsureToggle returns the theme toggle button, creating one at the end
// of the body if the page has none. Either way the button shows the icon
// for the current theme. Session binds its click handler.
func (m *ThemeManager) EnsureToggle() *html.Node {
	if btn := m.doc.Query("." + themeToggleClass); btn != nil {
		m.refreshToggle()
		return btn
	}

	btn := m.doc.AppendElement(m.doc.Body(), "button")
	m.doc.SetAttr(btn, "type", "button")
	m.doc.SetAttr(btn, "class", themeToggleClass)
	m.doc.SetAttr(btn, "aria-label", "Toggle theme")
	m.doc.SetAttr(btn, "title", "Toggle theme")
	m.refreshToggle()
	return btn
}

// refreshToggle shows the moon in light mode and the sun in dark mode.
func (m *ThemeManager) refreshToggle() {
	btn := m.doc.Query("." + themeToggleClass)
	if btn == nil {
		return
	}
	icon := moonIcon
	if m.Current() == ThemeDark {
		icon = sunIcon
	}
	m.doc.Empty(btn)
	_, _ = m.doc.InsertHTML(btn, icon)
}
