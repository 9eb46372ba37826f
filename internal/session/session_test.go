package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NASA-IMPACT/stac-admin/internal/form"
	"github.com/NASA-IMPACT/stac-admin/internal/model"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	draft := model.CollectionTemplate()
	draft["id"] = "sentinel-2"
	draft["keywords"] = []any{"optical", "esa"}

	got, err := Deserialize(Serialize(draft))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if diff := cmp.Diff(draft, got); diff != "" {
		t.Fatalf("round trip changed the draft (-want +got):\n%s", diff)
	}
}

func TestDeserializeRejectsBadInput(t *testing.T) {
	for _, text := range []string{
		`{"id": "x"`,
		`{"id": "x"} trailing`,
		`[1, 2]`,
		`null`,
		``,
	} {
		if _, err := Deserialize(text); err == nil {
			t.Fatalf("expected parse error for %q", text)
		} else {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError for %q, got %T", text, err)
			}
		}
	}
}

func TestToggleIsIdempotent(t *testing.T) {
	s := NewCollection(nil, false)
	s.Store().SetField(form.NewPath(form.Key("id")), "landsat")
	before := s.Store().Snapshot()

	if err := s.Toggle(); err != nil {
		t.Fatalf("FORM->JSON: %v", err)
	}
	text := s.Text()
	if err := s.Toggle(); err != nil {
		t.Fatalf("JSON->FORM: %v", err)
	}
	if diff := cmp.Diff(before, s.Store().Snapshot()); diff != "" {
		t.Fatalf("toggle without edits changed the draft (-want +got):\n%s", diff)
	}

	// A second pass over to JSON must produce byte-identical text.
	if err := s.Toggle(); err != nil {
		t.Fatalf("second FORM->JSON: %v", err)
	}
	if s.Text() != text {
		t.Fatalf("serialization is not deterministic")
	}
}

func TestToggleRefusedWhileTextMalformed(t *testing.T) {
	s := NewCollection(nil, false)
	s.Store().SetField(form.NewPath(form.Key("id")), "landsat")
	if err := s.Toggle(); err != nil {
		t.Fatalf("FORM->JSON: %v", err)
	}
	before := s.Store().Snapshot()

	s.SetText(`{"id": "broken"`)
	if s.ParseError() == nil {
		t.Fatalf("expected parse error after malformed edit")
	}

	err := s.Toggle()
	if err == nil {
		t.Fatalf("expected refused toggle")
	}
	if s.Mode() != ModeJSON {
		t.Fatalf("mode changed despite parse error: %v", s.Mode())
	}
	if diff := cmp.Diff(before, s.Store().Snapshot()); diff != "" {
		t.Fatalf("draft changed despite refused toggle (-want +got):\n%s", diff)
	}

	// Fixing the text unblocks the transition.
	s.SetText(`{"id": "fixed", "description": "d"}`)
	if err := s.Toggle(); err != nil {
		t.Fatalf("toggle after fix: %v", err)
	}
	if v, _ := s.Store().Get(form.NewPath(form.Key("id"))); v != "fixed" {
		t.Fatalf("edited text not applied: %v", v)
	}
}

func TestSetTextReplacesWholesale(t *testing.T) {
	s := NewCollection(nil, false)
	if err := s.Toggle(); err != nil {
		t.Fatalf("FORM->JSON: %v", err)
	}

	s.SetText(`{"id": "min", "description": "bare", "custom:field": 42}`)
	if s.ParseError() != nil {
		t.Fatalf("unexpected parse error: %v", s.ParseError())
	}
	if err := s.Toggle(); err != nil {
		t.Fatalf("JSON->FORM: %v", err)
	}

	// Keys absent from the text are gone from the draft.
	if _, ok := s.Store().Get(form.NewPath(form.Key("license"))); ok {
		t.Fatalf("license should be absent after wholesale replace")
	}
	// Unknown keys ride along untouched.
	if v, _ := s.Store().Get(form.NewPath(form.Key("custom:field"))); v != 42.0 {
		t.Fatalf("unknown key lost: %v", v)
	}
}

func TestDeletedKeyRestoredByTemplateAtSubmit(t *testing.T) {
	// Delete the license key in JSON mode; the form shows it gone, but the
	// outbound payload carries the template default again.
	s := NewCollection(nil, false)
	if err := s.Toggle(); err != nil {
		t.Fatalf("FORM->JSON: %v", err)
	}
	s.SetText(`{"id": "c1", "description": "d1"}`)
	if err := s.Toggle(); err != nil {
		t.Fatalf("JSON->FORM: %v", err)
	}

	payload, err := s.BuildPayload("https://stac.example.com")
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if v, ok := payload["license"]; !ok || v != "" {
		t.Fatalf("expected template license default, got %v (ok=%v)", v, ok)
	}
	if payload["id"] != "c1" || payload["description"] != "d1" {
		t.Fatalf("draft values lost: %v", payload)
	}
}

func TestBeginSubmitGating(t *testing.T) {
	s := NewCollection(nil, false)

	// Required fields empty: blocked.
	err := s.BeginSubmit()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Status() != StatusIdle {
		t.Fatalf("status must stay IDLE on refused submit")
	}

	s.Store().SetField(form.NewPath(form.Key("id")), "c1")
	s.Store().SetField(form.NewPath(form.Key("description")), "d")
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	if s.Status() != StatusLoading {
		t.Fatalf("expected LOADING, got %v", s.Status())
	}

	// Re-entry while loading is refused.
	if err := s.BeginSubmit(); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected in-flight error, got %v", err)
	}
	s.EndSubmit()
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("retry after EndSubmit: %v", err)
	}
}

func TestBeginSubmitBlockedByParseError(t *testing.T) {
	s := NewCollection(nil, false)
	s.Store().SetField(form.NewPath(form.Key("id")), "c1")
	s.Store().SetField(form.NewPath(form.Key("description")), "d")
	if err := s.Toggle(); err != nil {
		t.Fatalf("FORM->JSON: %v", err)
	}
	s.SetText(`{oops`)

	err := s.BeginSubmit()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if s.Status() != StatusIdle {
		t.Fatalf("status must stay IDLE on refused submit")
	}
}

func TestItemSessionSeedsCollection(t *testing.T) {
	s := NewItem(nil, false, "landsat")
	if v, _ := s.Store().Get(form.NewPath(form.Key("collection"))); v != "landsat" {
		t.Fatalf("collection not seeded: %v", v)
	}
	if s.Mode().String() != "FORM" {
		t.Fatalf("new sessions must open in FORM mode")
	}
}

func TestSerializeCreateFlowIsStable(t *testing.T) {
	// Item templates stamp current datetimes; a partial create draft must
	// still serialize identically across repeated calls.
	s := NewItem(model.Doc{"id": "scene-1"}, false, "landsat")
	first := s.Serialize()
	second := s.Serialize()
	if first != second {
		t.Fatalf("create-flow serialization drifted between calls:\n%s\n----\n%s", first, second)
	}
}

func TestSerializeCreateFlowIsSchemaComplete(t *testing.T) {
	s := NewCollection(model.Doc{"id": "only-id"}, false)
	text := s.Serialize()
	for _, key := range []string{`"extent"`, `"license"`, `"stac_version"`} {
		if !strings.Contains(text, key) {
			t.Fatalf("create-flow blob missing %s:\n%s", key, text)
		}
	}
}
