package session

import (
	"errors"
	"fmt"

	"github.com/NASA-IMPACT/stac-admin/internal/form"
	"github.com/NASA-IMPACT/stac-admin/internal/model"
)

// Mode selects which editing surface is active. Exactly one is active at any
// time; there is no history beyond the single toggle.
type Mode int

const (
	ModeForm Mode = iota
	ModeJSON
)

func (m Mode) String() string {
	if m == ModeJSON {
		return "JSON"
	}
	return "FORM"
}

// Status is the submission tri-state. LOADING disables the submit control;
// it is the sole in-flight guard (no queue, no dedupe).
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
)

// ErrSubmitInFlight is returned when a submit starts while another is loading.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// Session is one open editor: the draft, the active mode, the raw JSON
// mirror, and the latest parse/submission state. Created when an editor
// opens, destroyed on navigation away, never shared.
type Session struct {
	kind         model.Kind
	editMode     bool
	collectionID string

	store    *form.Store
	mode     Mode
	text     string
	parseErr error
	status   Status

	// createTpl is the template snapshot taken when a create session opens.
	// Serializing against a stable snapshot keeps repeated toggles
	// deterministic even though fresh templates stamp current datetimes.
	createTpl model.Doc
}

// NewCollection opens a collection session. A nil draft starts a create flow
// from the canonical template; a non-nil draft starts an edit flow.
func NewCollection(draft model.Doc, editMode bool) *Session {
	if draft == nil {
		draft = model.CollectionTemplate()
	}
	return &Session{
		kind:      model.KindCollection,
		editMode:  editMode,
		store:     form.NewStore(draft, form.CollectionRules()),
		createTpl: model.CollectionTemplate(),
	}
}

// NewItem opens an item session owned by the given collection.
func NewItem(draft model.Doc, editMode bool, collectionID string) *Session {
	if draft == nil {
		draft = model.ItemTemplate(collectionID)
	}
	s := &Session{
		kind:         model.KindItem,
		editMode:     editMode,
		collectionID: collectionID,
		store:        form.NewStore(draft, form.ItemRules()),
		createTpl:    model.ItemTemplate(collectionID),
	}
	if collectionID != "" {
		s.store.SetField(form.NewPath(form.Key("collection")), collectionID)
	}
	return s
}

func (s *Session) Kind() model.Kind     { return s.kind }
func (s *Session) EditMode() bool       { return s.editMode }
func (s *Session) CollectionID() string { return s.collectionID }
func (s *Session) Store() *form.Store   { return s.store }
func (s *Session) Mode() Mode           { return s.mode }
func (s *Session) Text() string         { return s.text }
func (s *Session) ParseError() error    { return s.parseErr }
func (s *Session) Status() Status       { return s.status }

// SetCollectionID retargets an item create flow at another collection.
func (s *Session) SetCollectionID(id string) {
	s.collectionID = id
	if s.kind == model.KindItem {
		s.store.SetField(form.NewPath(form.Key("collection")), id)
	}
}

// Serialize renders the current draft as editor text. Create flows serialize
// the draft merged over the template so the blob is always schema-complete.
func (s *Session) Serialize() string {
	draft := s.store.Snapshot()
	if s.editMode {
		return Serialize(draft)
	}
	merged := model.CopyDoc(s.createTpl)
	if s.kind == model.KindItem {
		merged["collection"] = s.collectionID
	}
	for k, v := range draft {
		merged[k] = v
	}
	return Serialize(merged)
}

// SetText updates the JSON-mode blob. A successful strict parse immediately
// replaces the structured draft wholesale (REPLACE semantics; a key deleted
// in the text disappears from the form until template defaults are reapplied
// at submit time). A failed parse records the error and leaves the draft
// untouched, so the last known-good structured state survives.
func (s *Session) SetText(text string) {
	s.text = text
	doc, err := Deserialize(text)
	if err != nil {
		s.parseErr = err
		return
	}
	s.parseErr = nil
	s.store.Replace(doc)
}

// Toggle flips between FORM and JSON. FORM→JSON always succeeds and refreshes the blob
// from the draft. JSON→FORM is refused while the blob does not parse: the
// error is returned, the mode stays JSON and the draft is untouched.
func (s *Session) Toggle() error {
	if s.mode == ModeForm {
		s.text = s.Serialize()
		s.parseErr = nil
		s.mode = ModeJSON
		return nil
	}

	doc, err := Deserialize(s.text)
	if err != nil {
		s.parseErr = err
		return err
	}
	s.parseErr = nil
	s.store.Replace(doc)
	s.mode = ModeForm
	return nil
}

// BeginSubmit validates the session and moves it to LOADING. It fails without
// any network side effect when a submit is already in flight, the JSON blob
// doesn't parse, or required fields are missing.
func (s *Session) BeginSubmit() error {
	if s.status == StatusLoading {
		return ErrSubmitInFlight
	}
	if s.mode == ModeJSON && s.parseErr != nil {
		return s.parseErr
	}
	if errs := s.store.Validate(); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	s.status = StatusLoading
	return nil
}

// EndSubmit returns the session to IDLE so the user may retry manually.
func (s *Session) EndSubmit() { s.status = StatusIdle }

// BuildPayload produces the outbound record for this session.
func (s *Session) BuildPayload(apiBase string) (model.Doc, error) {
	return model.BuildPayload(s.store.Snapshot(), s.kind, model.PayloadOptions{
		EditMode:     s.editMode,
		APIBase:      apiBase,
		CollectionID: s.collectionID,
	})
}

// ValidationError aggregates per-field messages that block submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}
