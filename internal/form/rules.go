package form

import "github.com/NASA-IMPACT/stac-admin/internal/model"

// Declared rule sets for the two record kinds. Keys use the "#" wildcard for
// list indices (see Path.pattern).

// LicensePattern is the rule key whose enum is filled from the license
// catalog once it loads (plus the literal "other").
const LicensePattern = "license"

// ItemLicensePattern is the item-side license field.
const ItemLicensePattern = "properties.license"

// CollectionRules covers the collection editor fields.
func CollectionRules() map[string]Rule {
	return map[string]Rule{
		"id":                           {Required: true, Message: "Enter a collection ID."},
		"description":                  {Required: true, Message: "Enter a collection description."},
		LicensePattern:                 {},
		"extent.spatial.bbox.#.#":      {Numeric: true},
		"extent.temporal.interval.#.#": {},
		"providers.#.roles.#":          {Enum: model.ProviderRoles},
	}
}

// ItemRules covers the item editor fields.
func ItemRules() map[string]Rule {
	return map[string]Rule{
		"id":                             {Required: true, Message: "Item ID is required"},
		"collection":                     {Required: true, Message: "Select a collection."},
		ItemLicensePattern:               {},
		"bbox.#":                         {Numeric: true},
		"properties.gsd":                 {Numeric: true},
		"properties.providers.#.roles.#": {Enum: model.ProviderRoles},
	}
}
