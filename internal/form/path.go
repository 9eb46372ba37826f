package form

import (
	"strconv"
	"strings"
)

// Path addresses a (possibly nested, possibly list-indexed) field in a draft
// document. Paths are built from typed segments instead of interpolated
// strings so a typo cannot silently create an unvalidated field.
type Path []Segment

// Segment is one step of a Path: either an object key or a list index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns an object-key segment.
func Key(k string) Segment { return Segment{key: k} }

// Index returns a list-index segment.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// NewPath builds a path from segments.
func NewPath(segs ...Segment) Path { return Path(segs) }

// KeyName returns the object key of a key segment.
func (s Segment) KeyName() (string, bool) {
	if s.isIndex {
		return "", false
	}
	return s.key, true
}

// IndexValue returns the list index of an index segment.
func (s Segment) IndexValue() (int, bool) {
	if !s.isIndex {
		return 0, false
	}
	return s.index, true
}

// Child returns p extended by one segment.
func (p Path) Child(seg Segment) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, seg)
}

// String renders the dotted form used as the validation-error key,
// e.g. "providers.0.name".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		if s.isIndex {
			parts[i] = strconv.Itoa(s.index)
		} else {
			parts[i] = s.key
		}
	}
	return strings.Join(parts, ".")
}

// pattern renders the rule-lookup form, with list indices collapsed to "#"
// so one rule covers every row, e.g. "providers.#.name".
func (p Path) pattern() string {
	parts := make([]string, len(p))
	for i, s := range p {
		if s.isIndex {
			parts[i] = "#"
		} else {
			parts[i] = s.key
		}
	}
	return strings.Join(parts, ".")
}
