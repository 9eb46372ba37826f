package form

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
)

func TestSetFieldNested(t *testing.T) {
	s := NewStore(model.CollectionTemplate(), CollectionRules())

	s.SetField(NewPath(Key("title")), "Landsat")
	v, ok := s.Get(NewPath(Key("title")))
	if !ok || v != "Landsat" {
		t.Fatalf("expected title=Landsat, got %v (ok=%v)", v, ok)
	}

	s.SetField(NewPath(Key("extent"), Key("spatial"), Key("bbox"), Index(0), Index(2)), "180")
	v, _ = s.Get(NewPath(Key("extent"), Key("spatial"), Key("bbox"), Index(0), Index(2)))
	if v != 180.0 {
		t.Fatalf("expected coerced 180.0, got %v (%T)", v, v)
	}
}

func TestSetFieldNumericCoercion(t *testing.T) {
	s := NewStore(model.CollectionTemplate(), CollectionRules())
	p := NewPath(Key("extent"), Key("spatial"), Key("bbox"), Index(0), Index(0))

	errs := s.SetField(p, "not-a-number")
	if errs[p.String()] == "" {
		t.Fatalf("expected error for non-numeric input, got %v", errs)
	}
	// The draft must not carry the wrongly-typed value.
	if v, _ := s.Get(p); v != 0.0 {
		t.Fatalf("draft should keep prior value, got %v", v)
	}

	errs = s.SetField(p, "-12.5")
	if errs[p.String()] != "" {
		t.Fatalf("unexpected error after valid input: %v", errs)
	}
	if v, _ := s.Get(p); v != -12.5 {
		t.Fatalf("expected -12.5, got %v", v)
	}
}

func TestSetFieldEnum(t *testing.T) {
	s := NewStore(model.CollectionTemplate(), CollectionRules())
	s.SetEnum(LicensePattern, []string{"CC-BY-4.0", "other"})

	p := NewPath(Key("license"))
	if errs := s.SetField(p, "WTFPL-9"); errs["license"] == "" {
		t.Fatalf("expected enum violation")
	}
	if errs := s.SetField(p, "CC-BY-4.0"); errs["license"] != "" {
		t.Fatalf("unexpected error: %v", errs)
	}
	// Empty stays allowed; license is not a required field.
	if errs := s.SetField(p, ""); errs["license"] != "" {
		t.Fatalf("empty license should be allowed: %v", errs)
	}
}

func TestListEditsPreserveOrder(t *testing.T) {
	s := NewStore(model.CollectionTemplate(), CollectionRules())
	p := NewPath(Key("providers"))

	for _, name := range []string{"a", "b", "c"} {
		if err := s.AddListItem(p, model.Doc{"name": name}); err != nil {
			t.Fatalf("AddListItem: %v", err)
		}
	}
	if err := s.RemoveListItem(p, 1); err != nil {
		t.Fatalf("RemoveListItem: %v", err)
	}

	v, _ := s.Get(p)
	got := []string{}
	for _, e := range v.([]any) {
		got = append(got, e.(model.Doc)["name"].(string))
	}
	if diff := cmp.Diff([]string{"a", "c"}, got); diff != "" {
		t.Fatalf("order not preserved (-want +got):\n%s", diff)
	}

	if err := s.RemoveListItem(p, 5); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestRemoveListItemRekeysTrailingErrors(t *testing.T) {
	s := NewStore(model.CollectionTemplate(), CollectionRules())
	s.SetEnum("providers.#.roles.#", model.ProviderRoles)
	p := NewPath(Key("providers"))

	for i := 0; i < 3; i++ {
		if err := s.AddListItem(p, model.Doc{"name": "", "roles": []any{""}}); err != nil {
			t.Fatalf("AddListItem: %v", err)
		}
	}
	// Record errors on rows 1 and 2.
	s.SetField(NewPath(Key("providers"), Index(1), Key("roles"), Index(0)), "pilot")
	s.SetField(NewPath(Key("providers"), Index(2), Key("roles"), Index(0)), "captain")

	if err := s.RemoveListItem(p, 1); err != nil {
		t.Fatalf("RemoveListItem: %v", err)
	}

	errs := s.Errors()
	// Row 1's error goes with its row; row 2's error follows the row to its
	// new index.
	if _, ok := errs["providers.2.roles.0"]; ok {
		t.Fatalf("stale error key survived: %v", errs)
	}
	if msg := errs["providers.1.roles.0"]; !strings.Contains(msg, "captain") {
		t.Fatalf("error not re-keyed to shifted row: %v", errs)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	// Scenario: id and title set, description empty => submit must be blocked.
	s := NewStore(model.CollectionTemplate(), CollectionRules())
	s.SetField(NewPath(Key("id")), "landsat")
	s.SetField(NewPath(Key("title")), "Landsat")

	errs := s.Validate()
	if errs["description"] != "Enter a collection description." {
		t.Fatalf("expected required-description error, got %v", errs)
	}

	s.SetField(NewPath(Key("description")), "Landsat scenes")
	if errs := s.Validate(); len(errs) != 0 {
		t.Fatalf("expected clean validation, got %v", errs)
	}
}

func TestReplaceIsWholesale(t *testing.T) {
	s := NewStore(model.CollectionTemplate(), CollectionRules())
	s.SetField(NewPath(Key("license")), "CC-BY-4.0")

	// A replacement document that omits license removes it from the draft.
	s.Replace(model.Doc{"id": "x", "description": "d", "title": "t"})
	if _, ok := s.Get(NewPath(Key("license"))); ok {
		t.Fatalf("license should be gone after wholesale replace")
	}
	// Unknown keys are preserved verbatim.
	s.Replace(model.Doc{"id": "x", "description": "d", "custom:field": 7.0})
	if v, _ := s.Get(NewPath(Key("custom:field"))); v != 7.0 {
		t.Fatalf("unknown key lost: %v", v)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewStore(model.Doc{"keywords": []any{"x"}}, nil)
	snap := s.Snapshot()
	snap["keywords"].([]any)[0] = "mutated"
	if v, _ := s.Get(NewPath(Key("keywords"), Index(0))); v != "x" {
		t.Fatalf("snapshot mutation leaked into store: %v", v)
	}
}
