package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NASA-IMPACT/stac-admin/internal/api"
	"github.com/NASA-IMPACT/stac-admin/internal/model"
	"github.com/NASA-IMPACT/stac-admin/internal/session"
)

func newTestApp(t *testing.T) appModel {
	t.Helper()
	client, err := api.NewClient(api.Config{BaseURL: "https://stac.example.com"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	m := newAppModel(client, nil)
	m.width = 100
	m.height = 40
	return m
}

func TestStaleResponsesAreDropped(t *testing.T) {
	m := newTestApp(t)
	m.gen = 2

	page := &api.CollectionList{Collections: []model.Doc{{"id": "stale"}}}
	next, _ := m.Update(collectionsLoadedMsg{gen: 1, page: page})
	m = next.(appModel)
	if len(m.collectionsList.Items()) != 0 {
		t.Fatalf("stale response must not populate the list")
	}

	next, _ = m.Update(collectionsLoadedMsg{gen: 2, page: page})
	m = next.(appModel)
	if len(m.collectionsList.Items()) != 1 {
		t.Fatalf("current response must populate the list")
	}
}

func TestEditorToggleRefusedOnBadJSON(t *testing.T) {
	sess := session.NewCollection(nil, false)
	ed := newEditorModel(sess, nil)

	ed, err := ed.toggleMode()
	if err != nil {
		t.Fatalf("FORM->JSON: %v", err)
	}
	ed.jsonArea.SetValue(`{"id": "broken"`)
	ed, err = ed.toggleMode()
	if err == nil {
		t.Fatalf("expected refused toggle")
	}
	if sess.Mode() != session.ModeJSON {
		t.Fatalf("mode must stay JSON, got %v", sess.Mode())
	}
}

func TestEditorToggleRoundTrip(t *testing.T) {
	sess := session.NewCollection(nil, false)
	ed := newEditorModel(sess, nil)

	ed, err := ed.toggleMode()
	if err != nil {
		t.Fatalf("FORM->JSON: %v", err)
	}
	if ed.jsonArea.Value() == "" {
		t.Fatalf("JSON blob not populated")
	}
	if _, err := ed.toggleMode(); err != nil {
		t.Fatalf("JSON->FORM: %v", err)
	}
}

func TestSubmitErrorOpensProjectedModal(t *testing.T) {
	m := newTestApp(t)
	sess := session.NewCollection(nil, false)
	next, _ := m.openEditor(sess)
	m = next.(appModel)

	apiErr := &api.Error{StatusCode: 422, Detail: &api.Detail{Code: "E1", Description: api.DescriptionLines{"bad id"}}}
	next, _ = m.Update(submitDoneMsg{gen: m.gen, err: apiErr})
	m = next.(appModel)
	if len(m.errModal) != 1 || m.errModal[0] != "E1: bad id" {
		t.Fatalf("unexpected modal lines: %v", m.errModal)
	}

	// esc dismisses the modal.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(appModel)
	if m.errModal != nil {
		t.Fatalf("modal should be dismissed")
	}
}

func TestSubmitSuccessNavigation(t *testing.T) {
	m := newTestApp(t)
	sess := session.NewCollection(nil, false)
	next, _ := m.openEditor(sess)
	m = next.(appModel)

	next, _ = m.Update(submitDoneMsg{gen: m.gen, result: model.Doc{"id": "landsat"}})
	m = next.(appModel)
	if m.view != viewSuccess {
		t.Fatalf("expected success view, got %v", m.view)
	}
	if !m.success.isNewRecord || m.success.recordID != "landsat" {
		t.Fatalf("unexpected success state: %+v", m.success)
	}
	if m.success.message != "Collection landsat created." {
		t.Fatalf("unexpected message: %q", m.success.message)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m := newTestApp(t)
	m.confirm = &pendingDelete{kind: model.KindCollection, recordID: "landsat"}

	// esc cancels without issuing a delete.
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(appModel)
	if m.confirm != nil || cmd != nil {
		t.Fatalf("esc should cancel the pending delete")
	}
}
