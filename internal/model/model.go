package model

// Kind identifies the record kind by its STAC "type" literal.
type Kind string

const (
	KindCollection Kind = "Collection"
	KindItem       Kind = "Feature"
)

// StacVersion is the schema version stamped on every outbound payload.
const StacVersion = "1.0.0"

// Doc is a catalog record as a plain JSON document. Drafts, templates and
// payloads all share this shape so unknown keys survive edits untouched.
type Doc = map[string]any

// ProviderRoles are the role tags accepted for provider entries.
var ProviderRoles = []string{"licensor", "producer", "processor", "host"}

// CopyDoc returns a deep copy of a document.
func CopyDoc(d Doc) Doc {
	if d == nil {
		return nil
	}
	out := make(Doc, len(d))
	for k, v := range d {
		out[k] = CopyValue(v)
	}
	return out
}

// CopyValue deep-copies a JSON-shaped value (maps, slices, scalars).
func CopyValue(v any) any {
	switch t := v.(type) {
	case Doc:
		return CopyDoc(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CopyValue(e)
		}
		return out
	default:
		return v
	}
}

// StringField reads a top-level string field, tolerating absent/non-string values.
func StringField(d Doc, key string) string {
	if d == nil {
		return ""
	}
	s, _ := d[key].(string)
	return s
}
