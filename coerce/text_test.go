package coerce

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain text untouched", "Road construction works", "Road construction works"},
		{"collapses whitespace", "  Road \n\t construction\r\n works ", "Road construction works"},
		{"strips tags", "<p>Supply of <b>medical</b> equipment</p>", "Supply of medical equipment"},
		{"nested markup", "<div><ul><li>Lot 1</li><li>Lot 2</li></ul></div>", "Lot 1Lot 2"},
		{"angle brackets without markup", "amount < 500 and > 100", "amount < 500 and > 100"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.raw); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"shorter than max", "tender", 10, "tender"},
		{"exact length", "tender", 6, "tender"},
		{"cut", "tender notice", 6, "tender"},
		{"multibyte runes", "appel d'offres à élargir", 16, "appel d'offres à"},
		{"zero max", "tender", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.text, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
		})
	}
}
