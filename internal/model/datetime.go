package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	reDateOnly  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reLocalTime = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2})?$`)
)

// NormalizeDatetime canonicalizes a datetime string for submission: UTC with
// a trailing Z and no fractional seconds.
//
// Accepted inputs:
// - RFC3339 / RFC3339Nano (timezone-aware)
// - YYYY-MM-DDTHH:MM[:SS] (no zone; taken as UTC, browser datetime-local style)
// - YYYY-MM-DD (date-only; midnight UTC)
func NormalizeDatetime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty datetime")
	}

	// The regexes only gate the shape; time.Parse rejects calendar-invalid
	// values like 2024-13-01 or 2024-02-30.
	if reDateOnly.MatchString(s) {
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return "", fmt.Errorf("invalid date %q: %w", s, err)
		}
		return s + "T00:00:00Z", nil
	}
	if reLocalTime.MatchString(s) {
		if len(s) == len("2006-01-02T15:04") {
			s += ":00"
		}
		if _, err := time.Parse("2006-01-02T15:04:05", s); err != nil {
			return "", fmt.Errorf("invalid datetime %q: %w", s, err)
		}
		return s + "Z", nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC().Format("2006-01-02T15:04:05") + "Z", nil
	}

	return "", fmt.Errorf("invalid datetime %q (expected YYYY-MM-DD, YYYY-MM-DDTHH:MM[:SS], or RFC3339)", s)
}

// itemDatetimeKeys are the properties normalized before item submission.
var itemDatetimeKeys = []string{"datetime", "start_datetime", "end_datetime", "created", "updated"}

// normalizeItemDatetimes canonicalizes the datetime properties in place.
// Nulls are kept (open-ended ranges); non-string values are an error.
func normalizeItemDatetimes(props Doc) error {
	for _, k := range itemDatetimeKeys {
		v, ok := props[k]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("properties.%s: expected string or null, got %T", k, v)
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		norm, err := NormalizeDatetime(s)
		if err != nil {
			return fmt.Errorf("properties.%s: %w", k, err)
		}
		props[k] = norm
	}
	return nil
}
