package ui

import "golang.org/x/net/html"

// Kind names a widget type of the kit.
type Kind string

const (
	KindInput     Kind = "input"
	KindTooltip   Kind = "tooltip"
	KindPopover   Kind = "popover"
	KindCollapse  Kind = "collapse"
	KindTab       Kind = "tab"
	KindModal     Kind = "modal"
	KindOffcanvas Kind = "offcanvas"
	KindToast     Kind = "toast"
	KindDropdown  Kind = "dropdown"
)

// Lifecycle event names for a kind, e.g. "show.mdb.modal".
func (k Kind) ShowEvent() string   { return "show.mdb." + string(k) }
func (k Kind) ShownEvent() string  { return "shown.mdb." + string(k) }
func (k Kind) HideEvent() string   { return "hide.mdb." + string(k) }
func (k Kind) HiddenEvent() string { return "hidden.mdb." + string(k) }

// Options configures a widget at construction. Fields a kind does not
// use are ignored.
type Options struct {
	// Toggle shows a collapse immediately on construction.
	Toggle bool
	Parent *html.Node

	Backdrop bool
	Keyboard bool
	Focus    bool

	Offset    [2]int
	Flip      bool
	Boundary  string
	Reference string
	Display   string
}

// ModalDefaults matches what markup-declared modals get.
func ModalDefaults() Options {
	return Options{Backdrop: true, Keyboard: true, Focus: true}
}

// DropdownDefaults positions menus 8px below the toggle and lets them flip.
func DropdownDefaults() Options {
	return Options{
		Offset:    [2]int{0, 8},
		Flip:      true,
		Boundary:  "clippingParents",
		Reference: "toggle",
		Display:   "dynamic",
	}
}

// Widget is one live instance bound to an element.
type Widget interface {
	Kind() Kind
	Element() *html.Node
	Options() Options

	Init()
	Show()
	Hide()
	Toggle()
	Dispose()

	Visible() bool
	Disposed() bool
}

// Kit constructs widgets and looks up the live instance bound to an
// element.
type Kit interface {
	New(kind Kind, el *html.Node, opts Options) Widget
	Instance(kind Kind, el *html.Node) Widget
}
