package model

import "strings"

// derivedRels are the link relations the submission pipeline owns. Whatever
// the user placed in "links" for these rels is recomputed from the current
// collection/item ids; other rels pass through untouched.
var derivedRels = map[string]bool{
	"self":       true,
	"parent":     true,
	"root":       true,
	"collection": true,
}

// DeriveLinks computes the canonical link set for an item and appends any
// user-provided links with non-derived rels.
func DeriveLinks(apiBase, collectionID, itemID string, existing []any) []any {
	base := strings.TrimRight(strings.TrimSpace(apiBase), "/")
	collectionHref := base + "/collections/" + collectionID

	links := []any{
		Doc{
			"rel":  "self",
			"href": collectionHref + "/items/" + itemID,
			"type": "application/geo+json",
		},
		Doc{
			"rel":  "parent",
			"href": collectionHref,
			"type": "application/json",
		},
		Doc{
			"rel":  "root",
			"href": base + "/",
			"type": "application/json",
		},
		Doc{
			"rel":  "collection",
			"href": collectionHref,
			"type": "application/json",
		},
	}

	for _, l := range existing {
		m, ok := l.(Doc)
		if !ok {
			continue
		}
		rel, _ := m["rel"].(string)
		if derivedRels[rel] {
			continue
		}
		links = append(links, CopyValue(m))
	}
	return links
}
