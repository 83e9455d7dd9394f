// Package ui activates interactive widgets declared by marker attributes
// in server-rendered markup, and manages the light/dark theme preference.
//
// The DOM is an x/net/html tree wrapped by Document, which counts every
// mutation and carries event listeners, so activation can run headless:
// on the server before a page is written, and in tests.
package ui

import (
	"bytes"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Event is dispatched to listeners on the target and its ancestors.
type Event struct {
	Type   string
	Target *html.Node
	Detail map[string]any

	defaultPrevented bool
}

func (e *Event) PreventDefault() { e.defaultPrevented = true }

func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

type Listener func(*Event)

type listenerEntry struct {
	fn Listener
}

// Document wraps a parsed HTML tree.
type Document struct {
	root *html.Node // document node

	listeners       map[*html.Node]map[string][]*listenerEntry
	windowListeners map[string][]*listenerEntry

	mutations int
	focused   *html.Node
	scrolled  *html.Node
	frames    []func()
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		root:            root,
		listeners:       make(map[*html.Node]map[string][]*listenerEntry),
		windowListeners: make(map[string][]*listenerEntry),
	}, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// Root returns the <html> element.
func (d *Document) Root() *html.Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return c
		}
	}
	return d.root
}

// Body returns the <body> element.
func (d *Document) Body() *html.Node {
	root := d.Root()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Body {
			return c
		}
	}
	return root
}

// Mutations counts attribute, class and tree changes made through the
// Document since parsing.
func (d *Document) Mutations() int { return d.mutations }

// QueryAll returns all elements matching sel. Invalid selectors match
// nothing.
func (d *Document) QueryAll(sel string) []*html.Node {
	return QueryAllIn(d.root, sel)
}

// Query returns the first element matching sel, or nil.
func (d *Document) Query(sel string) *html.Node {
	return QueryIn(d.root, sel)
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if v, ok := Attr(n, "id"); ok && v == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// QueryAllIn matches descendants of n, excluding n itself.
func QueryAllIn(n *html.Node, sel string) []*html.Node {
	if n == nil || strings.TrimSpace(sel) == "" {
		return nil
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil
	}
	matches := s.MatchAll(n)
	out := matches[:0]
	for _, m := range matches {
		if m != n {
			out = append(out, m)
		}
	}
	return out
}

func QueryIn(n *html.Node, sel string) *html.Node {
	all := QueryAllIn(n, sel)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (d *Document) SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			if a.Val == val {
				return
			}
			n.Attr[i].Val = val
			d.mutations++
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	d.mutations++
}

func (d *Document) RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.mutations++
			return
		}
	}
}

func classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

func HasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

func (d *Document) AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	d.SetAttr(n, "class", strings.Join(append(classes(n), class), " "))
}

func (d *Document) RemoveClass(n *html.Node, class string) {
	if !HasClass(n, class) {
		return
	}
	var keep []string
	for _, c := range classes(n) {
		if c != class {
			keep = append(keep, c)
		}
	}
	d.SetAttr(n, "class", strings.Join(keep, " "))
}

// ToggleClass adds or removes class depending on on.
func (d *Document) ToggleClass(n *html.Node, class string, on bool) {
	if on {
		d.AddClass(n, class)
		return
	}
	d.RemoveClass(n, class)
}

// SetStyle sets one inline style property, keeping the others.
func (d *Document) SetStyle(n *html.Node, prop, value string) {
	raw, _ := Attr(n, "style")
	var decls []string
	for _, decl := range strings.Split(raw, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.TrimSpace(name) == prop {
			continue
		}
		decls = append(decls, decl)
	}
	decls = append(decls, prop+": "+value)
	d.SetAttr(n, "style", strings.Join(decls, "; "))
}

// Value returns the current value of a form control.
func Value(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.DataAtom == atom.Textarea {
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return b.String()
	}
	v, _ := Attr(n, "value")
	return v
}

// Input sets a control's value and fires an input event, as typing would.
func (d *Document) Input(n *html.Node, value string) {
	if n.DataAtom == atom.Textarea {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		d.mutations++
	} else {
		d.SetAttr(n, "value", value)
	}
	d.Dispatch(n, &Event{Type: "input"})
}

// AddEventListener registers fn and returns a func that removes it.
func (d *Document) AddEventListener(n *html.Node, typ string, fn Listener) func() {
	byType := d.listeners[n]
	if byType == nil {
		byType = make(map[string][]*listenerEntry)
		d.listeners[n] = byType
	}
	entry := &listenerEntry{fn: fn}
	byType[typ] = append(byType[typ], entry)

	return func() {
		list := d.listeners[n][typ]
		for i, e := range list {
			if e == entry {
				d.listeners[n][typ] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount reports how many listeners of typ are attached to n.
func (d *Document) ListenerCount(n *html.Node, typ string) int {
	return len(d.listeners[n][typ])
}

// Dispatch delivers e to the target and then to each ancestor. It returns
// false if a listener prevented the default action.
func (d *Document) Dispatch(n *html.Node, e *Event) bool {
	e.Target = n
	for cur := n; cur != nil; cur = cur.Parent {
		entries := append([]*listenerEntry(nil), d.listeners[cur][e.Type]...)
		for _, entry := range entries {
			entry.fn(e)
		}
	}
	return !e.defaultPrevented
}

func (d *Document) Click(n *html.Node) bool {
	return d.Dispatch(n, &Event{Type: "click"})
}

// OnWindow registers a window-level listener.
func (d *Document) OnWindow(typ string, fn Listener) func() {
	entry := &listenerEntry{fn: fn}
	d.windowListeners[typ] = append(d.windowListeners[typ], entry)

	return func() {
		list := d.windowListeners[typ]
		for i, e := range list {
			if e == entry {
				d.windowListeners[typ] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) DispatchWindow(e *Event) {
	for _, entry := range append([]*listenerEntry(nil), d.windowListeners[e.Type]...) {
		entry.fn(e)
	}
}

func (d *Document) Focus(n *html.Node) { d.focused = n }

func (d *Document) Focused() *html.Node { return d.focused }

func (d *Document) ScrollIntoView(n *html.Node) { d.scrolled = n }

func (d *Document) ScrolledTo() *html.Node { return d.scrolled }

// RequestAnimationFrame queues fn until the next Flush.
func (d *Document) RequestAnimationFrame(fn func()) {
	d.frames = append(d.frames, fn)
}

// Flush runs queued animation frame callbacks.
func (d *Document) Flush() {
	frames := d.frames
	d.frames = nil
	for _, fn := range frames {
		fn()
	}
}

// InsertHTML parses fragment and appends it to parent, like
// insertAdjacentHTML("beforeend").
func (d *Document) InsertHTML(parent *html.Node, fragment string) ([]*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	d.mutations++
	return nodes, nil
}

// AppendElement creates <tag> under parent.
func (d *Document) AppendElement(parent *html.Node, tag string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	parent.AppendChild(n)
	d.mutations++
	return n
}

// Empty removes all children of n.
func (d *Document) Empty(n *html.Node) {
	if n.FirstChild == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	d.mutations++
}

// Remove detaches n from the tree and drops its listeners.
func (d *Document) Remove(n *html.Node) {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
	walk(n, func(c *html.Node) bool {
		delete(d.listeners, c)
		return true
	})
	d.mutations++
}

// Contains reports whether n is attached to the document.
func (d *Document) Contains(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == d.root {
			return true
		}
	}
	return false
}

// NextElementSibling skips text and comment nodes.
func NextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
