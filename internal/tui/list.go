package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
)

func newList(title, help string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// We render our own global footer + breadcrumb, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("record", "records")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

type collectionItem struct {
	doc model.Doc
}

func (i collectionItem) id() string          { return model.StringField(i.doc, "id") }
func (i collectionItem) FilterValue() string { return i.id() }
func (i collectionItem) Title() string {
	if t := model.StringField(i.doc, "title"); t != "" {
		return t
	}
	return i.id()
}
func (i collectionItem) Description() string {
	return firstLine(model.StringField(i.doc, "description"))
}

type itemItem struct {
	doc model.Doc
}

func (i itemItem) id() string          { return model.StringField(i.doc, "id") }
func (i itemItem) FilterValue() string { return i.id() }
func (i itemItem) Title() string       { return i.id() }
func (i itemItem) Description() string {
	props, _ := i.doc["properties"].(map[string]any)
	if props == nil {
		return ""
	}
	dt, _ := props["datetime"].(string)
	title, _ := props["title"].(string)
	switch {
	case title != "" && dt != "":
		return title + "  " + dt
	case title != "":
		return title
	default:
		return dt
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
