package coerce

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"iso", "2025-06-30", "2025-06-30"},
		{"iso with time", "2025-06-30T15:04:05", "2025-06-30"},
		{"rfc3339", "2025-06-30T15:04:05Z", "2025-06-30"},
		{"slashes year first", "2025/06/30", "2025-06-30"},
		{"day first slashes", "30/06/2025", "2025-06-30"},
		{"day first dashes", "30-06-2025", "2025-06-30"},
		{"single digit day", "5-6-2025", "2025-06-05"},
		{"abbreviated month", "30-Jun-2025", "2025-06-30"},
		{"long month name", "June 30, 2025", "2025-06-30"},
		{"short month name", "Jun 30, 2025", "2025-06-30"},
		{"surrounding whitespace", "  2025-06-30  ", "2025-06-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.raw, err)
			}
			if iso := ISODate(got); iso != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.raw, iso, tt.want)
			}
		})
	}
}

func TestParseDateErrors(t *testing.T) {
	for _, raw := range []string{"", "soon", "2025-13-45", "30th of June"} {
		_, err := ParseDate(raw)
		if err == nil {
			t.Errorf("ParseDate(%q): expected error", raw)
			continue
		}
		var derr *DateParseError
		if !errors.As(err, &derr) {
			t.Errorf("ParseDate(%q): error type %T, want *DateParseError", raw, err)
		}
	}
}
