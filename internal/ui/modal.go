package ui

import (
	"fmt"
	"html"
	"strings"
)

// DynamicModal describes a modal built at runtime. Content and Footer are
// trusted HTML fragments; ID, Title and Size are escaped.
type DynamicModal struct {
	ID      string
	Title   string
	Content string
	Footer  string
	// Size is a dialog size class such as "modal-lg".
	Size string
	// Persist keeps the modal in the document after it is hidden.
	Persist bool
}

// ShowModal shows the modal matching sel, creating its widget if needed.
// Unknown selectors are ignored.
func (s *Session) ShowModal(sel string) {
	el := s.doc.Query(sel)
	if el == nil {
		return
	}
	m := s.kit.Instance(KindModal, el)
	if m == nil {
		m = s.kit.New(KindModal, el, ModalDefaults())
	}
	m.Show()
}

// HideModal hides the modal matching sel if it has a widget.
func (s *Session) HideModal(sel string) {
	el := s.doc.Query(sel)
	if el == nil {
		return
	}
	if m := s.kit.Instance(KindModal, el); m != nil {
		m.Hide()
	}
}

func (s *Session) HideAllModals() {
	for _, el := range s.doc.QueryAll(".modal.show") {
		if m := s.kit.Instance(KindModal, el); m != nil {
			m.Hide()
		}
	}
}

// CreateModal appends a modal to the body and shows it. Unless Persist is
// set, the modal disposes itself and leaves the document once hidden. An
// id already present in the document is an error.
func (s *Session) CreateModal(opts DynamicModal) (Widget, error) {
	id := opts.ID
	if id == "" {
		id = fmt.Sprintf("dynamicModal-%d", s.now().UnixMilli())
	}
	if s.doc.ByID(id) != nil {
		return nil, fmt.Errorf("ui: element %q already exists", id)
	}

	if _, err := s.doc.InsertHTML(s.doc.Body(), modalMarkup(id, opts)); err != nil {
		return nil, fmt.Errorf("ui: insert modal: %w", err)
	}
	el := s.doc.ByID(id)
	if el == nil {
		return nil, fmt.Errorf("ui: modal %q not found after insert", id)
	}

	m := s.kit.New(KindModal, el, ModalDefaults())
	if !opts.Persist {
		s.doc.AddEventListener(el, KindModal.HiddenEvent(), func(*Event) {
			m.Dispose()
			s.doc.Remove(el)
		})
	}
	m.Show()
	return m, nil
}

func modalMarkup(id string, opts DynamicModal) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="modal fade" id="%s" tabindex="-1" aria-hidden="true">`, html.EscapeString(id))
	fmt.Fprintf(&b, `<div class="modal-dialog %s"><div class="modal-content">`, html.EscapeString(opts.Size))
	fmt.Fprintf(&b, `<div class="modal-header"><h5 class="modal-title">%s</h5>`, html.EscapeString(opts.Title))
	b.WriteString(`<button type="button" class="btn-close" data-mdb-dismiss="modal" aria-label="Close"></button></div>`)
	fmt.Fprintf(&b, `<div class="modal-body">%s</div>`, opts.Content)
	if opts.Footer != "" {
		fmt.Fprintf(&b, `<div class="modal-footer">%s</div>`, opts.Footer)
	}
	b.WriteString(`</div></div></div>`)
	return b.String()
}
