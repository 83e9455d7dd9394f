package ui

import "golang.org/x/net/html"

// BuiltinKit is the headless widget kit. It keeps every live instance so
// callers can tell when two instances end up bound to one element.
type BuiltinKit struct {
	doc  *Document
	live []*widget
}

func NewKit(doc *Document) *BuiltinKit {
	return &BuiltinKit{doc: doc}
}

func (k *BuiltinKit) New(kind Kind, el *html.Node, opts Options) Widget {
	w := &widget{kit: k, kind: kind, el: el, opts: opts}
	k.live = append(k.live, w)

	switch kind {
	case KindModal, KindToast, KindOffcanvas:
		w.visible = HasClass(el, "show")
		for _, btn := range QueryAllIn(el, `[data-mdb-dismiss="`+string(kind)+`"]`) {
			w.unbind = append(w.unbind, k.doc.AddEventListener(btn, "click", func(e *Event) {
				e.PreventDefault()
				w.Hide()
			}))
		}
	case KindCollapse:
		w.visible = HasClass(el, "show")
		if opts.Toggle {
			w.Toggle()
		}
	case KindDropdown:
		v, _ := Attr(el, "aria-expanded")
		w.visible = v == "true"
		w.unbind = append(w.unbind, k.doc.AddEventListener(el, "click", func(e *Event) {
			e.PreventDefault()
			w.Toggle()
		}))
	case KindTab:
		w.visible = HasClass(el, "active")
		w.unbind = append(w.unbind, k.doc.AddEventListener(el, "click", func(e *Event) {
			e.PreventDefault()
			w.Show()
		}))
	}
	return w
}

// Instance returns the most recent live instance of kind bound to el.
func (k *BuiltinKit) Instance(kind Kind, el *html.Node) Widget {
	for i := len(k.live) - 1; i >= 0; i-- {
		if w := k.live[i]; w.kind == kind && w.el == el {
			return w
		}
	}
	return nil
}

// Live counts the live instances of kind bound to el.
func (k *BuiltinKit) Live(kind Kind, el *html.Node) int {
	n := 0
	for _, w := range k.live {
		if w.kind == kind && w.el == el {
			n++
		}
	}
	return n
}

func (k *BuiltinKit) forget(w *widget) {
	for i, cur := range k.live {
		if cur == w {
			k.live = append(k.live[:i:i], k.live[i+1:]...)
			return
		}
	}
}

func (k *BuiltinKit) anyVisible(kind Kind) bool {
	for _, w := range k.live {
		if w.kind == kind && w.visible {
			return true
		}
	}
	return false
}

type widget struct {
	kit  *BuiltinKit
	kind Kind
	el   *html.Node
	opts Options

	initialized bool
	visible     bool
	disposed    bool
	unbind      []func()
}

func (w *widget) Kind() Kind          { return w.kind }
func (w *widget) Element() *html.Node { return w.el }
func (w *widget) Options() Options    { return w.opts }
func (w *widget) Visible() bool       { return w.visible }
func (w *widget) Disposed() bool      { return w.disposed }

func (w *widget) Init() { w.initialized = true }

func (w *widget) Show() {
	if w.disposed || w.visible {
		return
	}
	doc := w.kit.doc
	if !doc.Dispatch(w.el, &Event{Type: w.kind.ShowEvent()}) {
		return
	}
	w.visible = true
	w.apply(true)
	doc.Dispatch(w.el, &Event{Type: w.kind.ShownEvent()})
}

func (w *widget) Hide() {
	if w.disposed || !w.visible {
		return
	}
	doc := w.kit.doc
	if !doc.Dispatch(w.el, &Event{Type: w.kind.HideEvent()}) {
		return
	}
	w.visible = false
	w.apply(false)
	doc.Dispatch(w.el, &Event{Type: w.kind.HiddenEvent()})
}

func (w *widget) Toggle() {
	if w.visible {
		w.Hide()
		return
	}
	w.Show()
}

func (w *widget) Dispose() {
	if w.disposed {
		return
	}
	for _, fn := range w.unbind {
		fn()
	}
	w.unbind = nil
	w.disposed = true
	w.kit.forget(w)
}

func (w *widget) apply(on bool) {
	doc := w.kit.doc

	switch w.kind {
	case KindModal:
		doc.ToggleClass(w.el, "show", on)
		if on {
			doc.RemoveAttr(w.el, "aria-hidden")
			doc.SetAttr(w.el, "aria-modal", "true")
			doc.AddClass(doc.Body(), "modal-open")
			return
		}
		doc.RemoveAttr(w.el, "aria-modal")
		doc.SetAttr(w.el, "aria-hidden", "true")
		if !w.kit.anyVisible(KindModal) {
			doc.RemoveClass(doc.Body(), "modal-open")
		}
	case KindCollapse, KindOffcanvas, KindToast:
		doc.ToggleClass(w.el, "show", on)
	case KindDropdown:
		if on {
			doc.SetAttr(w.el, "aria-expanded", "true")
		} else {
			doc.SetAttr(w.el, "aria-expanded", "false")
		}
	case KindTab:
		w.activateTab(on)
	}
}

// activateTab moves the active state from sibling tabs in the same list
// to this one, and shows the pane it targets.
func (w *widget) activateTab(on bool) {
	doc := w.kit.doc
	if !on {
		doc.RemoveClass(w.el, "active")
		if pane := tabPane(doc, w.el); pane != nil {
			doc.RemoveClass(pane, "active")
			doc.RemoveClass(pane, "show")
		}
		return
	}

	if list := closestClass(w.el, "nav"); list != nil {
		for _, other := range QueryAllIn(list, `[data-mdb-toggle="tab"], [data-mdb-toggle="pill"]`) {
			if other == w.el {
				continue
			}
			if inst, ok := w.kit.Instance(KindTab, other).(*widget); ok && inst.visible {
				inst.Hide()
			}
		}
	}

	doc.AddClass(w.el, "active")
	if pane := tabPane(doc, w.el); pane != nil {
		doc.AddClass(pane, "active")
		doc.AddClass(pane, "show")
	}
}

func tabPane(doc *Document, tab *html.Node) *html.Node {
	return doc.Query(TargetSelector(tab))
}

// TargetSelector returns the data-mdb-target of el, falling back to its
// href.
func TargetSelector(el *html.Node) string {
	if v, ok := Attr(el, "data-mdb-target"); ok && v != "" {
		return v
	}
	v, _ := Attr(el, "href")
	return v
}

func closestClass(n *html.Node, class string) *html.Node {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && HasClass(cur, class) {
			return cur
		}
	}
	return nil
}
