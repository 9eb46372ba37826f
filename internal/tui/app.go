package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NASA-IMPACT/stac-admin/internal/api"
	"github.com/NASA-IMPACT/stac-admin/internal/license"
	"github.com/NASA-IMPACT/stac-admin/internal/model"
	"github.com/NASA-IMPACT/stac-admin/internal/session"
	"github.com/NASA-IMPACT/stac-admin/internal/store"
)

type view int

const (
	viewCollections view = iota
	viewItems
	viewEditor
	viewSuccess
)

const pageSize = 200

type collectionsLoadedMsg struct {
	gen  int
	page *api.CollectionList
	err  error
}

type itemsLoadedMsg struct {
	gen          int
	collectionID string
	page         *api.ItemList
	err          error
}

type licensesLoadedMsg struct {
	ids []string
	err error
}

type submitDoneMsg struct {
	gen    int
	result model.Doc
	err    error
}

type deleteDoneMsg struct {
	gen int
	err error
}

// successState mirrors the navigation payload shown after a submission.
type successState struct {
	message     string
	isNewRecord bool
	recordID    string
	lastMode    session.Mode
}

type pendingDelete struct {
	kind         model.Kind
	collectionID string
	recordID     string
}

type appModel struct {
	client *api.Client
	drafts *store.DraftStore

	width  int
	height int

	view view

	collectionsList list.Model
	itemsList       list.Model

	selectedCollection model.Doc
	licenseIDs         []string

	editor  editorModel
	success successState
	confirm *pendingDelete

	// gen tags async requests; replies carrying a stale gen are dropped so a
	// slow response can never clobber newer state.
	gen     int
	loading bool

	status    string
	errModal  []string
	statusErr string
}

func newAppModel(client *api.Client, drafts *store.DraftStore) appModel {
	m := appModel{client: client, drafts: drafts}
	m.collectionsList = newList("Collections", "Select a collection", []list.Item{})
	m.itemsList = newList("Items", "Select an item", []list.Item{})
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadCollections(), m.loadLicenses())
}

func (m *appModel) nextGen() int {
	m.gen++
	return m.gen
}

func (m appModel) loadCollections() tea.Cmd {
	gen := m.gen
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		page, err := client.ListCollections(ctx, pageSize, 0)
		return collectionsLoadedMsg{gen: gen, page: page, err: err}
	}
}

func (m appModel) loadItems(collectionID string) tea.Cmd {
	gen := m.gen
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		page, err := client.ListItems(ctx, collectionID, pageSize, 0)
		return itemsLoadedMsg{gen: gen, collectionID: collectionID, page: page, err: err}
	}
}

func (m appModel) loadLicenses() tea.Cmd {
	url := license.DefaultURL
	if cfg, err := store.LoadConfig(); err == nil && cfg.LicenseURL != "" {
		url = cfg.LicenseURL
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		cat, err := license.Fetch(ctx, nil, url)
		if err != nil {
			return licensesLoadedMsg{err: err}
		}
		return licensesLoadedMsg{ids: cat.IDs()}
	}
}

func (m appModel) submit() tea.Cmd {
	gen := m.gen
	client := m.client
	sess := m.editor.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		payload, err := sess.BuildPayload(client.BaseURL())
		if err != nil {
			return submitDoneMsg{gen: gen, err: err}
		}
		var result model.Doc
		if sess.Kind() == model.KindCollection {
			result, err = client.SubmitCollection(ctx, payload, sess.EditMode())
		} else {
			result, err = client.SubmitItem(ctx, sess.CollectionID(), payload, sess.EditMode())
		}
		return submitDoneMsg{gen: gen, result: result, err: err}
	}
}

func (m appModel) deleteRecord(p pendingDelete) tea.Cmd {
	gen := m.gen
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		var err error
		if p.kind == model.KindCollection {
			err = client.DeleteCollection(ctx, p.recordID)
		} else {
			err = client.DeleteItem(ctx, p.collectionID, p.recordID)
		}
		return deleteDoneMsg{gen: gen, err: err}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case collectionsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.statusErr = msg.err.Error()
			return m, nil
		}
		m.statusErr = ""
		items := make([]list.Item, 0, len(msg.page.Collections))
		for _, doc := range msg.page.Collections {
			items = append(items, collectionItem{doc: doc})
		}
		m.collectionsList.SetItems(items)
		return m, nil

	case itemsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.statusErr = msg.err.Error()
			return m, nil
		}
		m.statusErr = ""
		items := make([]list.Item, 0, len(msg.page.Features))
		for _, doc := range msg.page.Features {
			items = append(items, itemItem{doc: doc})
		}
		m.itemsList.SetItems(items)
		m.view = viewItems
		return m, nil

	case licensesLoadedMsg:
		if msg.err != nil {
			// Degrade to free-text license entry.
			m.status = "license catalog unavailable"
			return m, nil
		}
		m.licenseIDs = msg.ids
		return m, nil

	case submitDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.finishSubmit(msg)

	case deleteDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.statusErr = msg.err.Error()
			return m, nil
		}
		m.gen = m.nextGen()
		m.loading = true
		if m.view == viewItems {
			return m, m.loadItems(m.selectedCollectionID())
		}
		return m, m.loadCollections()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActive(msg)
}

func (m appModel) finishSubmit(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	sess := m.editor.sess
	sess.EndSubmit()

	if msg.err != nil {
		if apiErr, ok := msg.err.(*api.Error); ok {
			m.errModal = apiErr.Project()
		} else {
			m.errModal = []string{msg.err.Error()}
		}
		return m, nil
	}

	recordID := model.StringField(msg.result, "id")
	noun := "Collection"
	if sess.Kind() == model.KindItem {
		noun = "Item"
	}
	verb := "created"
	if sess.EditMode() {
		verb = "updated"
	}
	m.success = successState{
		message:     fmt.Sprintf("%s %s %s.", noun, recordID, verb),
		isNewRecord: !sess.EditMode(),
		recordID:    recordID,
		lastMode:    sess.Mode(),
	}
	m.dropDraft(sess, recordID)
	m.view = viewSuccess
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modals swallow keys first.
	if m.errModal != nil {
		if msg.String() == "esc" || msg.String() == "enter" {
			m.errModal = nil
		}
		return m, nil
	}
	if m.confirm != nil {
		switch msg.String() {
		case "y":
			p := *m.confirm
			m.confirm = nil
			m.gen = m.nextGen()
			m.loading = true
			return m, m.deleteRecord(p)
		case "esc", "n":
			m.confirm = nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.view {
	case viewCollections:
		return m.handleCollectionsKey(msg)
	case viewItems:
		return m.handleItemsKey(msg)
	case viewEditor:
		return m.handleEditorKey(msg)
	case viewSuccess:
		return m.handleSuccessKey(msg)
	}
	return m, nil
}

func (m appModel) handleCollectionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Don't intercept shortcuts while the list filter input is active.
	if m.collectionsList.FilterState() != list.Filtering {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			m.gen = m.nextGen()
			m.loading = true
			return m, m.loadCollections()
		case "n":
			return m.openEditor(session.NewCollection(nil, false))
		case "e":
			if it, ok := m.collectionsList.SelectedItem().(collectionItem); ok {
				return m.openEditor(session.NewCollection(it.doc, true))
			}
		case "d":
			if it, ok := m.collectionsList.SelectedItem().(collectionItem); ok {
				m.confirm = &pendingDelete{kind: model.KindCollection, recordID: it.id()}
			}
			return m, nil
		case "enter":
			if it, ok := m.collectionsList.SelectedItem().(collectionItem); ok {
				m.selectedCollection = it.doc
				m.gen = m.nextGen()
				m.loading = true
				return m, m.loadItems(it.id())
			}
		}
	}
	var cmd tea.Cmd
	m.collectionsList, cmd = m.collectionsList.Update(msg)
	return m, cmd
}

func (m appModel) handleItemsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.itemsList.FilterState() != list.Filtering {
		switch msg.String() {
		case "esc", "backspace":
			m.view = viewCollections
			return m, nil
		case "r":
			m.gen = m.nextGen()
			m.loading = true
			return m, m.loadItems(m.selectedCollectionID())
		case "n":
			return m.openEditor(session.NewItem(nil, false, m.selectedCollectionID()))
		case "e":
			if it, ok := m.itemsList.SelectedItem().(itemItem); ok {
				return m.openEditor(session.NewItem(it.doc, true, m.selectedCollectionID()))
			}
		case "d":
			if it, ok := m.itemsList.SelectedItem().(itemItem); ok {
				m.confirm = &pendingDelete{
					kind:         model.KindItem,
					collectionID: m.selectedCollectionID(),
					recordID:     it.id(),
				}
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.itemsList, cmd = m.itemsList.Update(msg)
	return m, cmd
}

func (m appModel) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+j":
		var err error
		m.editor, err = m.editor.toggleMode()
		if err != nil {
			m.statusErr = err.Error()
		} else {
			m.statusErr = ""
		}
		return m, nil
	case "ctrl+s":
		if m.loading {
			return m, nil
		}
		if m.editor.sess.Mode() == session.ModeForm {
			m.editor.commitField(m.editor.focus)
		}
		if err := m.editor.sess.BeginSubmit(); err != nil {
			m.statusErr = err.Error()
			return m, nil
		}
		m.statusErr = ""
		m.gen = m.nextGen()
		m.loading = true
		return m, m.submit()
	case "esc":
		if m.loading {
			return m, nil
		}
		m.saveDraft()
		return m.closeEditor()
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.update(msg)
	return m, cmd
}

func (m appModel) handleSuccessKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		// Create another record of the same kind, re-opening in the mode the
		// user last worked in.
		sess := m.editor.sess
		var next *session.Session
		if sess.Kind() == model.KindCollection {
			next = session.NewCollection(nil, false)
		} else {
			next = session.NewItem(nil, false, sess.CollectionID())
		}
		if m.success.lastMode == session.ModeJSON {
			_ = next.Toggle()
		}
		return m.openEditor(next)
	case "esc", "enter", "q":
		next, cmd := m.closeEditor()
		// Refresh the list behind the success screen.
		app := next.(appModel)
		app.gen = app.nextGen()
		app.loading = true
		if app.view == viewItems {
			return app, tea.Batch(cmd, app.loadItems(app.selectedCollectionID()))
		}
		return app, tea.Batch(cmd, app.loadCollections())
	}
	return m, nil
}

func (m appModel) openEditor(sess *session.Session) (tea.Model, tea.Cmd) {
	m.restoreDraft(sess)
	m.editor = newEditorModel(sess, m.licenseIDs)
	m.editor.resize(m.width, m.height-4)
	if sess.Mode() == session.ModeJSON {
		m.editor.jsonArea.SetValue(sess.Text())
	}
	m.view = viewEditor
	m.statusErr = ""
	return m, nil
}

func (m appModel) closeEditor() (tea.Model, tea.Cmd) {
	if m.editor.sess != nil && m.editor.sess.Kind() == model.KindItem {
		m.view = viewItems
	} else {
		m.view = viewCollections
	}
	return m, nil
}

func (m appModel) selectedCollectionID() string {
	return model.StringField(m.selectedCollection, "id")
}

// saveDraft persists the open editor state so closing mid-edit loses nothing.
func (m *appModel) saveDraft() {
	sess := m.editor.sess
	if m.drafts == nil || sess == nil {
		return
	}
	snap := sess.Store().Snapshot()
	recordID := model.StringField(snap, "id")
	if recordID == "" {
		return
	}
	collectionID := ""
	if sess.Kind() == model.KindItem {
		collectionID = sess.CollectionID()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := m.drafts.Save(ctx, store.Draft{
		Kind:         sess.Kind(),
		CollectionID: collectionID,
		RecordID:     recordID,
		EditMode:     sess.EditMode(),
		Body:         snap,
	})
	if err != nil {
		m.status = "draft not saved: " + err.Error()
		return
	}
	m.status = "draft saved"
}

// restoreDraft swaps in a locally saved draft body for edit sessions.
func (m *appModel) restoreDraft(sess *session.Session) {
	if m.drafts == nil {
		return
	}
	snap := sess.Store().Snapshot()
	recordID := model.StringField(snap, "id")
	if recordID == "" {
		return
	}
	collectionID := ""
	if sess.Kind() == model.KindItem {
		collectionID = sess.CollectionID()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d, err := m.drafts.Get(ctx, sess.Kind(), collectionID, recordID)
	if err != nil {
		return
	}
	sess.Store().Replace(d.Body)
	m.status = "restored local draft"
}

func (m *appModel) dropDraft(sess *session.Session, recordID string) {
	if m.drafts == nil || recordID == "" {
		return
	}
	collectionID := ""
	if sess.Kind() == model.KindItem {
		collectionID = sess.CollectionID()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.drafts.Delete(ctx, sess.Kind(), collectionID, recordID)
}

func (m appModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewCollections:
		m.collectionsList, cmd = m.collectionsList.Update(msg)
	case viewItems:
		m.itemsList, cmd = m.itemsList.Update(msg)
	case viewEditor:
		m.editor, cmd = m.editor.update(msg)
	}
	return m, cmd
}

func (m *appModel) resize() {
	listHeight := m.height - 6
	if listHeight < 3 {
		listHeight = 3
	}
	m.collectionsList.SetSize(m.width, listHeight)
	m.itemsList.SetSize(m.width, listHeight)
	m.editor.resize(m.width, m.height-4)
}

func (m appModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(m.breadcrumb())
	body := ""
	switch m.view {
	case viewCollections:
		body = m.collectionsList.View()
	case viewItems:
		body = m.viewItemsPane()
	case viewEditor:
		body = m.editor.view()
	case viewSuccess:
		body = m.viewSuccessPane()
	}

	frame := header + "\n\n" + body + "\n" + m.statusLine() + "\n" + m.footer()

	if m.errModal != nil {
		return renderErrorModal(m.errModal, m.width, m.height)
	}
	if m.confirm != nil {
		return renderConfirmModal(
			fmt.Sprintf("Delete %s %q?", strings.ToLower(kindNoun(m.confirm.kind)), m.confirm.recordID),
			m.width, m.height)
	}
	return frame
}

func (m appModel) viewItemsPane() string {
	desc := renderMarkdown(model.StringField(m.selectedCollection, "description"), m.width-4)
	if desc == "" {
		return m.itemsList.View()
	}
	return desc + "\n\n" + m.itemsList.View()
}

func (m appModel) viewSuccessPane() string {
	lines := []string{
		styleSuccess().Render(m.success.message),
		"",
	}
	if m.success.isNewRecord {
		lines = append(lines, "n: create another")
	}
	lines = append(lines, "enter: back to the list")
	return strings.Join(lines, "\n")
}

func (m appModel) breadcrumb() string {
	parts := []string{"stac-admin", m.client.BaseURL()}
	switch m.view {
	case viewItems:
		parts = append(parts, m.selectedCollectionID())
	case viewEditor:
		sess := m.editor.sess
		parts = append(parts, fmt.Sprintf("%s editor [%s]", kindNoun(sess.Kind()), sess.Mode()))
	case viewSuccess:
		parts = append(parts, "done")
	}
	return strings.Join(parts, " > ")
}

func (m appModel) statusLine() string {
	switch {
	case m.loading:
		return styleMuted().Render("loading…")
	case m.statusErr != "":
		return styleError().Render(m.statusErr)
	case m.status != "":
		return styleMuted().Render(m.status)
	}
	return ""
}

func (m appModel) footer() string {
	var help string
	switch m.view {
	case viewCollections:
		help = "enter: items  n: new  e: edit  d: delete  r: reload  q: quit"
	case viewItems:
		help = "n: new  e: edit  d: delete  r: reload  esc: back"
	case viewEditor:
		help = "ctrl+j: form/json  ctrl+s: submit  ctrl+r: +provider  ctrl+k: +keyword  ctrl+x: -row  esc: close"
	case viewSuccess:
		help = "n: create another  enter: back"
	}
	return styleMuted().Render(help)
}

func kindNoun(k model.Kind) string {
	if k == model.KindItem {
		return "Item"
	}
	return "Collection"
}
