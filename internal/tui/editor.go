package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NASA-IMPACT/stac-admin/internal/form"
	"github.com/NASA-IMPACT/stac-admin/internal/model"
	"github.com/NASA-IMPACT/stac-admin/internal/session"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldLicense
	fieldRolesCSV
	fieldReadonly
)

type field struct {
	label string
	path  form.Path
	kind  fieldKind
}

// editorModel is the dual-mode record editor. FORM mode renders one text
// input per editable leaf; JSON mode renders the whole draft in a textarea.
type editorModel struct {
	sess     *session.Session
	fields   []field
	inputs   []textinput.Model
	focus    int
	jsonArea textarea.Model

	licenseIDs []string

	width  int
	height int
}

func newEditorModel(sess *session.Session, licenseIDs []string) editorModel {
	m := editorModel{sess: sess, licenseIDs: licenseIDs}
	if len(licenseIDs) > 0 {
		sess.Store().SetEnum(form.LicensePattern, licenseIDs)
		sess.Store().SetEnum(form.ItemLicensePattern, licenseIDs)
	}

	m.jsonArea = textarea.New()
	m.jsonArea.CharLimit = 0
	m.jsonArea.Placeholder = "{}"

	m.rebuildFields()
	return m
}

// rebuildFields regenerates the field list and inputs from the current
// draft. Called on open and after any row add/remove or mode toggle.
func (m *editorModel) rebuildFields() {
	snap := m.sess.Store().Snapshot()
	if m.sess.Kind() == model.KindCollection {
		m.fields = collectionFields(snap)
	} else {
		m.fields = itemFields(snap)
	}
	// The record id is the resource address in edit mode; changing it would
	// retarget the PUT.
	if m.sess.EditMode() {
		for i := range m.fields {
			if m.fields[i].label == "ID" {
				m.fields[i].kind = fieldReadonly
			}
		}
	}

	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		in := textinput.New()
		in.CharLimit = 0
		in.Prompt = ""
		in.SetValue(m.fieldValue(f))
		m.inputs[i] = in
	}
	if m.focus >= len(m.inputs) {
		m.focus = len(m.inputs) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	if len(m.inputs) > 0 {
		m.inputs[m.focus].Focus()
	}
}

func collectionFields(snap model.Doc) []field {
	fields := []field{
		{"ID", form.NewPath(form.Key("id")), fieldText},
		{"Title", form.NewPath(form.Key("title")), fieldText},
		{"Description", form.NewPath(form.Key("description")), fieldText},
		{"License", form.NewPath(form.Key("license")), fieldLicense},
	}
	for i := 0; i < listLen(snap, "keywords"); i++ {
		fields = append(fields, field{
			fmt.Sprintf("Keyword %d", i+1),
			form.NewPath(form.Key("keywords"), form.Index(i)), fieldText,
		})
	}
	bboxLabels := []string{"West", "South", "East", "North"}
	for i, label := range bboxLabels {
		fields = append(fields, field{
			"Extent " + label,
			form.NewPath(form.Key("extent"), form.Key("spatial"), form.Key("bbox"), form.Index(0), form.Index(i)),
			fieldText,
		})
	}
	intervalLabels := []string{"Temporal start", "Temporal end"}
	for i, label := range intervalLabels {
		fields = append(fields, field{
			label,
			form.NewPath(form.Key("extent"), form.Key("temporal"), form.Key("interval"), form.Index(0), form.Index(i)),
			fieldText,
		})
	}
	for i := 0; i < listLen(snap, "providers"); i++ {
		fields = append(fields,
			field{fmt.Sprintf("Provider %d name", i+1),
				form.NewPath(form.Key("providers"), form.Index(i), form.Key("name")), fieldText},
			field{fmt.Sprintf("Provider %d roles", i+1),
				form.NewPath(form.Key("providers"), form.Index(i), form.Key("roles")), fieldRolesCSV},
			field{fmt.Sprintf("Provider %d url", i+1),
				form.NewPath(form.Key("providers"), form.Index(i), form.Key("url")), fieldText},
		)
	}
	return fields
}

func itemFields(snap model.Doc) []field {
	fields := []field{
		{"ID", form.NewPath(form.Key("id")), fieldText},
		{"Collection", form.NewPath(form.Key("collection")), fieldReadonly},
		{"Title", form.NewPath(form.Key("properties"), form.Key("title")), fieldText},
		{"Description", form.NewPath(form.Key("properties"), form.Key("description")), fieldText},
		{"License", form.NewPath(form.Key("properties"), form.Key("license")), fieldLicense},
		{"Datetime", form.NewPath(form.Key("properties"), form.Key("datetime")), fieldText},
		{"Platform", form.NewPath(form.Key("properties"), form.Key("platform")), fieldText},
		{"Constellation", form.NewPath(form.Key("properties"), form.Key("constellation")), fieldText},
		{"Mission", form.NewPath(form.Key("properties"), form.Key("mission")), fieldText},
		{"GSD", form.NewPath(form.Key("properties"), form.Key("gsd")), fieldText},
	}
	bboxLabels := []string{"West", "South", "East", "North"}
	for i, label := range bboxLabels {
		fields = append(fields, field{
			"Bbox " + label,
			form.NewPath(form.Key("bbox"), form.Index(i)), fieldText,
		})
	}
	props, _ := snap["properties"].(model.Doc)
	for i := 0; i < listLen(props, "providers"); i++ {
		fields = append(fields,
			field{fmt.Sprintf("Provider %d name", i+1),
				form.NewPath(form.Key("properties"), form.Key("providers"), form.Index(i), form.Key("name")), fieldText},
			field{fmt.Sprintf("Provider %d roles", i+1),
				form.NewPath(form.Key("properties"), form.Key("providers"), form.Index(i), form.Key("roles")), fieldRolesCSV},
		)
	}
	return fields
}

func listLen(doc model.Doc, key string) int {
	if doc == nil {
		return 0
	}
	if list, ok := doc[key].([]any); ok {
		return len(list)
	}
	return 0
}

func (m *editorModel) fieldValue(f field) string {
	v, ok := m.sess.Store().Get(f.path)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// commitField writes the focused input back into the draft.
func (m *editorModel) commitField(i int) {
	if i < 0 || i >= len(m.fields) {
		return
	}
	f := m.fields[i]
	value := m.inputs[i].Value()
	switch f.kind {
	case fieldReadonly:
		return
	case fieldRolesCSV:
		parts := []any{}
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		m.sess.Store().SetField(f.path, parts)
		// Re-apply the per-role enum check now that the list is addressable.
		for idx := range parts {
			m.sess.Store().SetField(f.path.Child(form.Index(idx)), parts[idx])
		}
	default:
		m.sess.Store().SetField(f.path, value)
	}
}

func (m editorModel) update(msg tea.Msg) (editorModel, tea.Cmd) {
	if m.sess.Mode() == session.ModeJSON {
		return m.updateJSON(msg)
	}
	return m.updateForm(msg)
}

func (m editorModel) updateForm(msg tea.Msg) (editorModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "tab", "down", "enter":
		m.commitField(m.focus)
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.commitField(m.focus)
		m.moveFocus(-1)
		return m, nil
	case "left", "right":
		if m.fields[m.focus].kind == fieldLicense && len(m.licenseIDs) > 0 {
			m.cycleLicense(key.String() == "right")
			return m, nil
		}
	case "ctrl+r":
		m.addProviderRow()
		return m, nil
	case "ctrl+k":
		m.addKeywordRow()
		return m, nil
	case "ctrl+x":
		m.removeFocusedRow()
		return m, nil
	}

	if m.fields[m.focus].kind == fieldReadonly {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.commitField(m.focus)
	return m, cmd
}

func (m editorModel) updateJSON(msg tea.Msg) (editorModel, tea.Cmd) {
	var cmd tea.Cmd
	m.jsonArea, cmd = m.jsonArea.Update(msg)
	// Live-parse so the status line reflects malformed text immediately.
	m.sess.SetText(m.jsonArea.Value())
	return m, cmd
}

func (m *editorModel) moveFocus(delta int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *editorModel) cycleLicense(forward bool) {
	f := m.fields[m.focus]
	cur := m.inputs[m.focus].Value()
	idx := 0
	for i, id := range m.licenseIDs {
		if id == cur {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(m.licenseIDs)
	} else {
		idx = (idx - 1 + len(m.licenseIDs)) % len(m.licenseIDs)
	}
	m.inputs[m.focus].SetValue(m.licenseIDs[idx])
	m.sess.Store().SetField(f.path, m.licenseIDs[idx])
}

func (m *editorModel) addProviderRow() {
	path := form.NewPath(form.Key("providers"))
	if m.sess.Kind() == model.KindItem {
		path = form.NewPath(form.Key("properties"), form.Key("providers"))
	}
	_ = m.sess.Store().AddListItem(path, model.Doc{
		"name": "", "description": "", "roles": []any{}, "url": "",
	})
	m.rebuildFields()
}

func (m *editorModel) addKeywordRow() {
	if m.sess.Kind() != model.KindCollection {
		return
	}
	_ = m.sess.Store().AddListItem(form.NewPath(form.Key("keywords")), "")
	m.rebuildFields()
}

// removeFocusedRow deletes the provider or keyword row under the cursor.
func (m *editorModel) removeFocusedRow() {
	f := m.fields[m.focus]
	for i, seg := range f.path {
		key, ok := seg.KeyName()
		if !ok || (key != "providers" && key != "keywords") {
			continue
		}
		if i+1 >= len(f.path) {
			break
		}
		idx, ok := f.path[i+1].IndexValue()
		if !ok {
			break
		}
		listPath := form.Path(f.path[:i+1])
		if err := m.sess.Store().RemoveListItem(listPath, idx); err == nil {
			m.rebuildFields()
		}
		return
	}
}

// toggleMode flips the editor between FORM and JSON. The JSON to FORM
// direction is refused while the text is malformed.
func (m editorModel) toggleMode() (editorModel, error) {
	if m.sess.Mode() == session.ModeForm {
		m.commitField(m.focus)
		if err := m.sess.Toggle(); err != nil {
			return m, err
		}
		m.jsonArea.SetValue(m.sess.Text())
		m.jsonArea.Focus()
		return m, nil
	}

	m.sess.SetText(m.jsonArea.Value())
	if err := m.sess.Toggle(); err != nil {
		return m, err
	}
	m.jsonArea.Blur()
	m.rebuildFields()
	return m, nil
}

func (m *editorModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.jsonArea.SetWidth(width - 4)
	if height > 10 {
		m.jsonArea.SetHeight(height - 6)
	}
}

func (m editorModel) view() string {
	if m.sess.Mode() == session.ModeJSON {
		return m.viewJSON()
	}
	return m.viewForm()
}

func (m editorModel) viewJSON() string {
	var b strings.Builder
	b.WriteString(m.jsonArea.View())
	b.WriteString("\n")
	if err := m.sess.ParseError(); err != nil {
		b.WriteString(styleError().Render(err.Error()))
	} else {
		b.WriteString(styleMuted().Render("valid JSON"))
	}
	return b.String()
}

func (m editorModel) viewForm() string {
	labelStyle := styleMuted().Width(22)
	focusedLabel := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Width(22)
	errs := m.sess.Store().Errors()

	var b strings.Builder
	for i, f := range m.fields {
		label := labelStyle.Render(f.label)
		if i == m.focus {
			label = focusedLabel.Render(f.label)
		}
		b.WriteString(label)
		b.WriteString(" ")
		if f.kind == fieldReadonly {
			b.WriteString(styleMuted().Render(m.inputs[i].Value()))
		} else {
			b.WriteString(m.inputs[i].View())
		}
		if msg := errs[f.path.String()]; msg != "" {
			b.WriteString("\n")
			b.WriteString(strings.Repeat(" ", 23))
			b.WriteString(styleError().Render(msg))
		}
		b.WriteString("\n")
	}
	return b.String()
}
