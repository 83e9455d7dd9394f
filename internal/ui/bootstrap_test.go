package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const widgetPage = `<!DOCTYPE html><html><head></head><body>
<div class="form-outline" id="filled"><input id="email" value="ada@example.com"><label>Email</label></div>
<div class="form-outline" id="empty"><input id="name"><label>Name</label></div>

<button id="openModal" data-mdb-toggle="modal" data-mdb-target="#profile">Edit</button>
<div class="modal" id="profile" tabindex="-1">
  <div class="modal-body">
    <div class="form-outline" id="modalOutline"><input id="modalInput" value="x"></div>
    <button id="closeModal" data-mdb-dismiss="modal">Close</button>
  </div>
</div>

<div class="dropdown">
  <button id="menuToggle" data-mdb-toggle="dropdown" aria-expanded="false">Menu</button>
  <ul class="dropdown-menu" id="menu"><li>Item</li></ul>
</div>

<div class="accordion" id="acc">
  <button class="accordion-button collapsed" id="btnOne" data-mdb-target="#one">One</button>
  <div class="accordion-collapse collapse" id="one"></div>
  <button class="accordion-button collapsed" id="btnTwo" data-mdb-target="#two">Two</button>
  <div class="accordion-collapse collapse" id="two"></div>
</div>

<button id="showToast">Notify</button>
<div class="toast" id="liveToast"></div>

<ul class="nav">
  <li><a id="tabA" href="#paneA" class="active" data-mdb-toggle="tab">A</a></li>
  <li><a id="tabB" href="#paneB" data-mdb-toggle="tab">B</a></li>
</ul>
<div id="paneA" class="tab-pane active show"></div>
<div id="paneB" class="tab-pane"></div>

<a id="jump" href="#section">Jump</a>
<section id="section"></section>
</body></html>`

func newTestSession(t *testing.T, markup string) (*Session, *BuiltinKit) {
	t.Helper()
	doc := mustParse(t, markup)
	kit := NewKit(doc)
	return NewSession(doc, kit, NewMemoryStorage()), kit
}

func TestInitializeWithoutMarkersDoesNotMutate(t *testing.T) {
	s, _ := newTestSession(t, `<html><body><p>plain <a href="#">top</a></p></body></html>`)

	s.Initialize()
	s.Reinitialize()

	assert.Zero(t, s.Document().Mutations())
}

func TestFloatingLabels(t *testing.T) {
	s, _ := newTestSession(t, widgetPage)
	doc := s.Document()
	s.Initialize()

	assert.True(t, HasClass(doc.ByID("filled"), "active"))
	assert.False(t, HasClass(doc.ByID("empty"), "active"))

	doc.Input(doc.ByID("name"), "Ada")
	assert.True(t, HasClass(doc.ByID("empty"), "active"))

	doc.Input(doc.ByID("name"), "")
	assert.False(t, HasClass(doc.ByID("empty"), "active"))
}

func TestReinitializeDoesNotStackHandlersOrInstances(t *testing.T) {
	s, kit := newTestSession(t, widgetPage)
	doc := s.Document()

	s.Initialize()
	s.Reinitialize()
	s.Reinitialize()

	trigger, modal := doc.ByID("openModal"), doc.ByID("profile")
	assert.Equal(t, 1, kit.Live(KindModal, modal))
	assert.Equal(t, 1, doc.ListenerCount(trigger, "click"))
	assert.Equal(t, 1, doc.ListenerCount(modal, KindModal.ShownEvent()))
	assert.Equal(t, 1, doc.ListenerCount(doc.ByID("name"), "input"))
	assert.Equal(t, 1, kit.Live(KindDropdown, doc.ByID("menuToggle")))
}

func TestModalTriggerShowsAndFocusesFirstControl(t *testing.T) {
	s, kit := newTestSession(t, widgetPage)
	doc := s.Document()
	s.Initialize()

	modal := doc.ByID("profile")
	doc.Click(doc.ByID("openModal"))

	assert.True(t, HasClass(modal, "show"))
	assert.True(t, HasClass(doc.Body(), "modal-open"))
	assert.Equal(t, doc.ByID("modalInput"), doc.Focused())
	assert.True(t, HasClass(doc.ByID("modalOutline"), "active"))

	doc.Click(doc.ByID("closeModal"))
	assert.False(t, HasClass(modal, "show"))
	assert.False(t, HasClass(doc.Body(), "modal-open"))

	doc.Click(doc.ByID("openModal"))
	assert.Equal(t, 1, kit.Live(KindModal, modal))
	assert.Equal(t, 1, kit.Live(KindInput, doc.ByID("modalOutline")))
}

func TestModalLifecycleIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	doc := mustParse(t, widgetPage)
	s := NewSession(doc, nil, nil, WithLogger(zap.New(core)))
	s.Initialize()

	s.ShowModal("#profile")
	s.HideModal("#profile")

	assert.Equal(t, 1, logs.FilterMessage("modal opening").Len())
	assert.Equal(t, 1, logs.FilterMessage("modal opened").Len())
	assert.Equal(t, 1, logs.FilterMessage("modal closing").Len())
	assert.Equal(t, 1, logs.FilterMessage("modal closed").Len())
}

func TestDropdownMenuShownOnNextFrame(t *testing.T) {
	s, kit := newTestSession(t, widgetPage)
	doc := s.Document()
	s.Initialize()

	toggle, menu := doc.ByID("menuToggle"), doc.ByID("menu")
	assert.Equal(t, DropdownDefaults(), kit.Instance(KindDropdown, toggle).Options())

	doc.Click(toggle)
	v, _ := Attr(toggle, "aria-expanded")
	assert.Equal(t, "true", v)
	assert.False(t, HasClass(menu, "show"))

	doc.Flush()
	assert.True(t, HasClass(menu, "show"))

	doc.Click(toggle)
	assert.False(t, HasClass(menu, "show"))
}

func TestAccordionTogglesPanelAndCollapsesSiblings(t *testing.T) {
	s, _ := newTestSession(t, widgetPage)
	doc := s.Document()
	s.Initialize()

	one, two := doc.ByID("btnOne"), doc.ByID("btnTwo")

	doc.Click(two)
	assert.True(t, HasClass(doc.ByID("two"), "show"))
	assert.False(t, HasClass(two, "collapsed"))

	doc.Click(one)
	assert.True(t, HasClass(doc.ByID("one"), "show"))
	assert.True(t, HasClass(two, "collapsed"))
	expanded, _ := Attr(two, "aria-expanded")
	assert.Equal(t, "false", expanded)
	// the sibling panel itself is left open
	assert.True(t, HasClass(doc.ByID("two"), "show"))

	doc.Click(one)
	assert.False(t, HasClass(doc.ByID("one"), "show"))
	assert.True(t, HasClass(one, "collapsed"))

	style, _ := Attr(one, "style")
	assert.Contains(t, style, "transition: transform 0.2s ease-in-out")
}

func TestAccordionButtonWithMissingTargetIsIgnored(t *testing.T) {
	s, _ := newTestSession(t, `<body><div class="accordion"><button class="accordion-button" id="b" data-mdb-target="#nope"></button></div></body>`)
	doc := s.Document()
	s.Initialize()
	before := doc.Mutations()

	doc.Click(doc.ByID("b"))

	assert.Equal(t, before, doc.Mutations())
}

func TestToastButtonShowsLiveToast(t *testing.T) {
	s, kit := newTestSession(t, widgetPage)
	doc := s.Document()
	s.Initialize()

	toast := doc.ByID("liveToast")
	doc.Click(doc.ByID("showToast"))
	doc.Click(doc.ByID("showToast"))

	assert.True(t, HasClass(toast, "show"))
	assert.Equal(t, 1, kit.Live(KindToast, toast))
}

func TestTabsMoveActiveState(t *testing.T) {
	s, _ := newTestSession(t, widgetPage)
	doc := s.Document()
	s.Initialize()

	doc.Click(doc.ByID("tabB"))

	assert.True(t, HasClass(doc.ByID("tabB"), "active"))
	assert.False(t, HasClass(doc.ByID("tabA"), "active"))
	assert.True(t, HasClass(doc.ByID("paneB"), "show"))
	assert.False(t, HasClass(doc.ByID("paneA"), "active"))
}

func TestSmoothScrollToAnchorTarget(t *testing.T) {
	s, _ := newTestSession(t, widgetPage)
	doc := s.Document()
	s.Boot()

	proceed := doc.Click(doc.ByID("jump"))

	assert.False(t, proceed)
	assert.Equal(t, doc.ByID("section"), doc.ScrolledTo())
}

func TestBootAppliesThemeAndAddsToggle(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set(ThemeStorageKey, "dark")
	doc := mustParse(t, `<html><body></body></html>`)
	s := NewSession(doc, nil, storage)

	s.Boot()

	theme, _ := Attr(doc.Root(), ThemeAttr)
	assert.Equal(t, "dark", theme)

	toggle := doc.Query(".theme-toggle")
	require.NotNil(t, toggle)
	assert.NotNil(t, QueryIn(toggle, ".sun-icon"))

	doc.Click(toggle)
	assert.Equal(t, ThemeLight, s.Theme().Current())
	assert.NotNil(t, QueryIn(toggle, ".moon-icon"))

	s.Boot()
	assert.Len(t, doc.QueryAll(".theme-toggle"), 1)
	assert.Equal(t, 1, doc.ListenerCount(toggle, "click"))
}
