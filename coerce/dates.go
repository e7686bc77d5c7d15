// Package coerce contains the leaf field-coercion utilities the normalizer
// relies on: date parsing, monetary-string parsing and text cleanup.
package coerce

import (
	"fmt"
	"strings"
	"time"
)

// DateParseError reports a raw value that matched none of the known date
// layouts.
type DateParseError struct {
	Raw string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unrecognized date format: %q", e.Raw)
}

// dateLayouts are tried in order. The list covers ISO 8601, the common
// European day-first forms and the per-source variants seen in the raw
// feeds (wb uses 30-Jun-2025, ungm uses 30-06-2025).
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2-1-2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses a raw date string against the known layouts. time.Parse
// already rejects impossible calendar dates, so no layout can produce a
// day that does not exist.
func ParseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, &DateParseError{Raw: raw}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &DateParseError{Raw: raw}
}

// ISODate renders a parsed date in the target schema's YYYY-MM-DD format.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
