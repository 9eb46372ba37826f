package session

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
)

// Serialize renders a draft as pretty-printed JSON: 2-space indent,
// lexicographic key order. Deterministic for identical input, so toggling
// modes repeatedly without edits is a byte-identical no-op.
func Serialize(doc model.Doc) string {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Drafts only ever hold JSON-shaped values; this is unreachable in
		// practice but must never take the editor down.
		return "{}"
	}
	return string(b)
}

// Deserialize strictly parses editor text into a draft document. The top
// level must be a JSON object.
func Deserialize(text string) (model.Doc, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	var doc model.Doc
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	// Reject trailing garbage after the object.
	if dec.More() {
		return nil, &ParseError{Err: fmt.Errorf("unexpected trailing content")}
	}
	if doc == nil {
		return nil, &ParseError{Err: fmt.Errorf("top-level value must be an object")}
	}
	return doc, nil
}

// ParseError marks malformed JSON-mode text. It blocks the JSON→FORM
// transition and submission until the text parses again.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "invalid JSON: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }
