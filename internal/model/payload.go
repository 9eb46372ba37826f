package model

import "fmt"

// PayloadOptions configure payload building. Everything the pipeline needs is
// injected here; the engine never reads ambient environment state.
type PayloadOptions struct {
	// EditMode selects PUT-shaped submissions (id must already exist).
	EditMode bool
	// APIBase is the catalog root URL, used to derive item links.
	APIBase string
	// CollectionID is the owning collection for item payloads. When empty,
	// the draft's own "collection" key is used.
	CollectionID string
}

// BuildPayload overlays a draft onto the canonical template so the outbound
// record is schema-complete even for minimal input.
//
// Merge semantics: top-level keys shallow-merge (draft wins); the
// extent.spatial.bbox and extent.temporal.interval sub-objects deep-merge so
// a partially specified extent doesn't wipe the template's extent shape.
// Extra keys typed by the user pass through unmodified.
func BuildPayload(draft Doc, kind Kind, opts PayloadOptions) (Doc, error) {
	collectionID := opts.CollectionID
	if collectionID == "" {
		collectionID = StringField(draft, "collection")
	}

	tpl := Template(kind, collectionID)
	out := CopyDoc(tpl)
	for k, v := range draft {
		out[k] = CopyValue(v)
	}

	if kind == KindCollection {
		out["extent"] = mergeExtent(tpl["extent"].(Doc), draft["extent"])
	}

	if kind == KindItem {
		if collectionID == "" {
			return nil, fmt.Errorf("item payload requires a collection id")
		}
		out["collection"] = collectionID

		props, ok := out["properties"].(Doc)
		if !ok {
			return nil, fmt.Errorf("item payload requires a properties object, got %T", out["properties"])
		}
		if err := normalizeItemDatetimes(props); err != nil {
			return nil, err
		}

		itemID := StringField(out, "id")
		existing, _ := out["links"].([]any)
		out["links"] = DeriveLinks(opts.APIBase, collectionID, itemID, existing)
	}

	return out, nil
}

// mergeExtent keeps the template's extent shape while honoring whatever bbox
// and interval the draft provides. Extra keys inside the draft extent (and
// inside spatial/temporal) pass through.
func mergeExtent(tpl Doc, draftExtent any) Doc {
	out := CopyDoc(tpl)
	de, ok := draftExtent.(Doc)
	if !ok {
		return out
	}

	for k, v := range de {
		if k == "spatial" || k == "temporal" {
			continue
		}
		out[k] = CopyValue(v)
	}

	if ds, ok := de["spatial"].(Doc); ok {
		spatial := out["spatial"].(Doc)
		for k, v := range ds {
			spatial[k] = CopyValue(v)
		}
	}
	if dt, ok := de["temporal"].(Doc); ok {
		temporal := out["temporal"].(Doc)
		for k, v := range dt {
			temporal[k] = CopyValue(v)
		}
	}
	return out
}
