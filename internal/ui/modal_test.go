package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateModalRemovesItselfWhenHidden(t *testing.T) {
	doc := mustParse(t, `<html><body></body></html>`)
	kit := NewKit(doc)
	s := NewSession(doc, kit, nil, WithClock(func() time.Time { return time.UnixMilli(1700000000000) }))

	m, err := s.CreateModal(DynamicModal{
		Title:   "Confirm <delete>",
		Content: `<p class="lead">Sure?</p>`,
		Footer:  `<button data-mdb-dismiss="modal" id="cancel">Cancel</button>`,
		Size:    "modal-sm",
	})
	require.NoError(t, err)

	el := doc.ByID("dynamicModal-1700000000000")
	require.NotNil(t, el)
	assert.True(t, m.Visible())
	assert.True(t, HasClass(el, "show"))
	assert.NotNil(t, QueryIn(el, ".modal-dialog.modal-sm"))
	assert.NotNil(t, QueryIn(el, "p.lead"))
	assert.Contains(t, doc.String(), "Confirm &lt;delete&gt;")

	doc.Click(doc.ByID("cancel"))

	assert.True(t, m.Disposed())
	assert.False(t, doc.Contains(el))
	assert.Zero(t, kit.Live(KindModal, el))
}

func TestCreateModalPersist(t *testing.T) {
	doc := mustParse(t, `<html><body></body></html>`)
	s := NewSession(doc, nil, nil)

	m, err := s.CreateModal(DynamicModal{ID: "keep", Title: "Keep", Persist: true})
	require.NoError(t, err)

	s.HideAllModals()

	el := doc.ByID("keep")
	require.NotNil(t, el)
	assert.False(t, m.Visible())
	assert.False(t, m.Disposed())
	assert.Nil(t, QueryIn(el, ".modal-footer"))
}

func TestShowAndHideModalBySelector(t *testing.T) {
	doc := mustParse(t, `<html><body><div class="modal" id="plain"></div></body></html>`)
	kit := NewKit(doc)
	s := NewSession(doc, kit, nil)

	s.ShowModal("#missing")
	s.HideModal("#missing")
	s.ShowModal("#plain")
	s.ShowModal("#plain")

	el := doc.ByID("plain")
	assert.True(t, HasClass(el, "show"))
	assert.Equal(t, 1, kit.Live(KindModal, el))

	s.HideModal("#plain")
	assert.False(t, HasClass(el, "show"))
}

func TestCreateModalRejectsTakenID(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="confirm"><p>old</p></div></body></html>`)
	kit := NewKit(doc)
	s := NewSession(doc, kit, nil)
	before := doc.String()

	m, err := s.CreateModal(DynamicModal{ID: "confirm", Title: "New"})

	require.Error(t, err)
	assert.Nil(t, m)
	assert.Equal(t, before, doc.String())
	assert.Len(t, doc.QueryAll("#confirm"), 1)
	assert.Zero(t, kit.Live(KindModal, doc.ByID("confirm")))
}
