package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
)

// Rule declares the constraints for one field pattern.
type Rule struct {
	// Required rejects empty/missing values on Validate.
	Required bool
	// Numeric coerces string input to float64 on SetField; unparseable
	// input is kept out of the draft and recorded as a field error.
	Numeric bool
	// Enum restricts string values to the given set (empty allowed unless
	// also Required). Used for license codes and provider roles.
	Enum []string
	// Message overrides the default required-field message.
	Message string
}

// Store holds and validates one draft record. It is owned by a single edit
// session and never shared.
type Store struct {
	draft model.Doc
	rules map[string]Rule
	errs  map[string]string
}

// NewStore wraps a draft document with its validation rules. The draft is
// deep-copied; callers keep their own copy untouched.
func NewStore(draft model.Doc, rules map[string]Rule) *Store {
	if draft == nil {
		draft = model.Doc{}
	}
	return &Store{
		draft: model.CopyDoc(draft),
		rules: rules,
		errs:  map[string]string{},
	}
}

// Snapshot returns a deep copy of the current draft.
func (s *Store) Snapshot() model.Doc { return model.CopyDoc(s.draft) }

// Replace overwrites the whole draft wholesale (JSON-mode deserialization).
// Field errors are recomputed from scratch.
func (s *Store) Replace(doc model.Doc) {
	s.draft = model.CopyDoc(doc)
	s.errs = map[string]string{}
	s.Validate()
}

// Errors returns the current validation-error set keyed by field path.
func (s *Store) Errors() map[string]string {
	out := make(map[string]string, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}

// Get resolves a path against the draft.
func (s *Store) Get(p Path) (any, bool) {
	var cur any = s.draft
	for _, seg := range p {
		if seg.isIndex {
			list, ok := cur.([]any)
			if !ok || seg.index < 0 || seg.index >= len(list) {
				return nil, false
			}
			cur = list[seg.index]
			continue
		}
		m, ok := cur.(model.Doc)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg.key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// SetField sets a field and applies its declared rule. Numeric fields entered
// as text are coerced here so the draft never carries a wrongly-typed value
// for a declared field. Returns the updated validation-error set.
func (s *Store) SetField(p Path, v any) map[string]string {
	key := p.String()
	rule := s.rules[p.pattern()]

	if rule.Numeric && !isEmpty(v) {
		coerced, err := coerceNumber(v)
		if err != nil {
			s.errs[key] = err.Error()
			return s.Errors()
		}
		v = coerced
	}
	if len(rule.Enum) > 0 {
		if str, ok := v.(string); ok && str != "" && !contains(rule.Enum, str) {
			s.errs[key] = fmt.Sprintf("%q is not one of %s", str, strings.Join(rule.Enum, ", "))
			return s.Errors()
		}
	}

	if err := s.set(p, v); err != nil {
		s.errs[key] = err.Error()
		return s.Errors()
	}

	if rule.Required && isEmpty(v) {
		s.errs[key] = requiredMessage(rule, key)
	} else {
		delete(s.errs, key)
	}
	return s.Errors()
}

// AddListItem appends an entry to the list at path, creating the list when
// missing. Existing entries keep their relative order.
func (s *Store) AddListItem(p Path, item any) error {
	cur, ok := s.Get(p)
	if !ok {
		cur = []any{}
	}
	list, ok := cur.([]any)
	if !ok {
		return fmt.Errorf("%s: not a list (got %T)", p.String(), cur)
	}
	return s.set(p, append(list, model.CopyValue(item)))
}

// RemoveListItem deletes the entry at index, preserving the order of the
// remaining entries. Field errors under the removed index are dropped.
func (s *Store) RemoveListItem(p Path, index int) error {
	cur, ok := s.Get(p)
	if !ok {
		return fmt.Errorf("%s: no such list", p.String())
	}
	list, ok := cur.([]any)
	if !ok {
		return fmt.Errorf("%s: not a list (got %T)", p.String(), cur)
	}
	if index < 0 || index >= len(list) {
		return fmt.Errorf("%s: index %d out of range (len %d)", p.String(), index, len(list))
	}
	out := make([]any, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)

	// Drop errors under the removed row and re-key errors for later rows so
	// they keep describing the right entry after the shift.
	prefix := p.String() + "."
	rekeyed := map[string]string{}
	for k, msg := range s.errs {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		head, tail, _ := strings.Cut(rest, ".")
		idx, err := strconv.Atoi(head)
		if err != nil || idx < index {
			continue
		}
		delete(s.errs, k)
		if idx == index {
			continue
		}
		nk := prefix + strconv.Itoa(idx-1)
		if tail != "" {
			nk += "." + tail
		}
		rekeyed[nk] = msg
	}
	for k, msg := range rekeyed {
		s.errs[k] = msg
	}
	return s.set(p, out)
}

// Validate runs the full required-field pass and returns the error set.
// Submission is blocked while it is non-empty.
func (s *Store) Validate() map[string]string {
	for pattern, rule := range s.rules {
		if !rule.Required || strings.Contains(pattern, "#") {
			continue
		}
		p := parsePattern(pattern)
		v, ok := s.Get(p)
		if !ok || isEmpty(v) {
			s.errs[pattern] = requiredMessage(rule, pattern)
		} else if s.errs[pattern] == requiredMessage(rule, pattern) {
			delete(s.errs, pattern)
		}
	}
	return s.Errors()
}

// SetEnum installs (or refreshes) the enum set for a field pattern. The
// license rule is populated this way once the license catalog loads.
func (s *Store) SetEnum(pattern string, values []string) {
	rule := s.rules[pattern]
	rule.Enum = values
	s.rules[pattern] = rule
}

func (s *Store) set(p Path, v any) error {
	if len(p) == 0 {
		return fmt.Errorf("empty path")
	}
	var cur any = s.draft
	for i, seg := range p[:len(p)-1] {
		if seg.isIndex {
			list, ok := cur.([]any)
			if !ok || seg.index < 0 || seg.index >= len(list) {
				return fmt.Errorf("%s: index %d not addressable", Path(p[:i+1]).String(), seg.index)
			}
			cur = list[seg.index]
			continue
		}
		m, ok := cur.(model.Doc)
		if !ok {
			return fmt.Errorf("%s: not an object", Path(p[:i]).String())
		}
		next, ok := m[seg.key]
		if !ok || next == nil {
			child := model.Doc{}
			m[seg.key] = child
			cur = child
			continue
		}
		cur = next
	}

	last := p[len(p)-1]
	if last.isIndex {
		list, ok := cur.([]any)
		if !ok || last.index < 0 || last.index >= len(list) {
			return fmt.Errorf("%s: index %d not addressable", p.String(), last.index)
		}
		list[last.index] = v
		return nil
	}
	m, ok := cur.(model.Doc)
	if !ok {
		return fmt.Errorf("%s: not an object", Path(p[:len(p)-1]).String())
	}
	m[last.key] = v
	return nil
}

func parsePattern(pattern string) Path {
	parts := strings.Split(pattern, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		if n, err := strconv.Atoi(part); err == nil {
			p = append(p, Index(n))
			continue
		}
		p = append(p, Key(part))
	}
	return p
}

func requiredMessage(rule Rule, key string) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fmt.Sprintf("%s is required", key)
}

func coerceNumber(v any) (any, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, fmt.Errorf("expected a number")
		}
		n, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", t)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("expected a number, got %T", v)
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
