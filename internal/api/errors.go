package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DescriptionLines normalizes the three description shapes the transaction
// API emits: a plain string, a list of strings, or a list of objects with a
// "msg" field.
type DescriptionLines []string

func (d *DescriptionLines) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = DescriptionLines{s}
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	out := make(DescriptionLines, 0, len(entries))
	for _, e := range entries {
		var line string
		if err := json.Unmarshal(e, &line); err == nil {
			out = append(out, line)
			continue
		}
		var obj struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(e, &obj); err == nil && obj.Msg != "" {
			out = append(out, obj.Msg)
			continue
		}
		out = append(out, string(e))
	}
	*d = out
	return nil
}

// Detail is the structured body of an API error. The server sends either
// {code, description} or a nested {detail: "..."} string.
type Detail struct {
	Code        string           `json:"code"`
	Description DescriptionLines `json:"description"`
	Detail      string           `json:"detail"`
}

func (d *Detail) UnmarshalJSON(b []byte) error {
	// Some endpoints collapse the whole detail to a bare string.
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = Detail{Detail: s}
		return nil
	}
	type alias Detail
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*d = Detail(a)
	return nil
}

// Error is a failed API call. Raw keeps the unparsed body so nothing the
// server said is ever silently dropped.
type Error struct {
	StatusCode int
	Detail     *Detail
	Raw        string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, strings.Join(e.Project(), "; "))
}

// NotFound reports whether the server answered 404.
func (e *Error) NotFound() bool { return e.StatusCode == 404 }

// Project flattens the error into display lines. It never returns an empty
// slice: structured detail first, then the raw body, then a generic line.
func (e *Error) Project() []string {
	if d := e.Detail; d != nil {
		if len(d.Description) > 0 {
			lines := make([]string, 0, len(d.Description))
			for _, desc := range d.Description {
				if d.Code != "" {
					lines = append(lines, d.Code+": "+desc)
					continue
				}
				lines = append(lines, desc)
			}
			return lines
		}
		if d.Detail != "" {
			return []string{d.Detail}
		}
		if d.Code != "" {
			return []string{d.Code}
		}
	}
	if raw := strings.TrimSpace(e.Raw); raw != "" {
		return []string{raw}
	}
	return []string{fmt.Sprintf("request failed with status %d", e.StatusCode)}
}

// parseAPIError builds an *Error from a non-2xx response body. Bodies that
// are not the expected {"detail": ...} envelope fall through to Raw.
func parseAPIError(status int, body []byte) *Error {
	apiErr := &Error{StatusCode: status, Raw: string(body)}
	var envelope struct {
		Detail *Detail `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != nil {
		apiErr.Detail = envelope.Detail
	}
	return apiErr
}
