package model

import "time"

// Templates are the canonical default-valued skeletons merged under user
// input before submission, so outbound payloads are always schema-complete.
//
// One canonical default per field; historical UI revisions that disagreed
// (empty vs. placeholder extents, stac_extension vs. stac_extensions) are
// collapsed to the shapes below.

// CollectionTemplate returns a fresh collection skeleton.
func CollectionTemplate() Doc {
	return Doc{
		"id":              "",
		"type":            string(KindCollection),
		"stac_version":    StacVersion,
		"stac_extensions": []any{},
		"title":           "",
		"description":     "",
		"license":         "",
		"keywords":        []any{},
		"providers":       []any{},
		"links":           []any{},
		"extent": Doc{
			"spatial": Doc{
				"bbox": []any{[]any{0.0, 0.0, 0.0, 0.0}},
			},
			"temporal": Doc{
				"interval": []any{[]any{"2025-01-01T00:00:00Z", "2085-03-31T12:00:00Z"}},
			},
		},
	}
}

// ItemTemplate returns a fresh item skeleton owned by the given collection.
// Datetimes default to "now" so a minimal create is still schema-valid.
func ItemTemplate(collectionID string) Doc {
	now := time.Now().UTC().Format("2006-01-02T15:04:05") + "Z"
	return Doc{
		"id":              "",
		"type":            string(KindItem),
		"stac_version":    StacVersion,
		"stac_extensions": []any{},
		"collection":      collectionID,
		"links":           []any{},
		"assets":          Doc{},
		"geometry": Doc{
			"type": "Polygon",
			"coordinates": []any{[]any{
				[]any{0.0, 0.0},
				[]any{10.0, 0.0},
				[]any{10.0, 10.0},
				[]any{0.0, 10.0},
				[]any{0.0, 0.0},
			}},
		},
		"bbox": []any{0.0, 0.0, 10.0, 10.0},
		"properties": Doc{
			"title":         "",
			"description":   "",
			"license":       "",
			"datetime":      now,
			"created":       now,
			"updated":       now,
			"providers":     []any{Doc{"name": "", "description": "", "roles": []any{}, "url": ""}},
			"platform":      "",
			"constellation": "",
			"mission":       "",
			"gsd":           1.0,
			"instruments":   []any{},
		},
	}
}

// Template returns the skeleton for a record kind. For items the collection
// id is stamped into the "collection" key.
func Template(kind Kind, collectionID string) Doc {
	if kind == KindItem {
		return ItemTemplate(collectionID)
	}
	return CollectionTemplate()
}
