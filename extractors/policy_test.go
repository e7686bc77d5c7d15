package extractors

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPolicyIsValid(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
}

func TestLoadPolicyOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	doc := `
size_thresholds:
  medium: 100000
  large: 1000000
  very_large: 5000000
keywords:
  top_n: 3
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if policy.SizeThresholds.Medium != 100000 {
		t.Errorf("medium threshold = %v, want 100000", policy.SizeThresholds.Medium)
	}
	if policy.Keywords.TopN != 3 {
		t.Errorf("top_n = %d, want 3", policy.Keywords.TopN)
	}
	// Keys absent from the file keep defaults.
	if len(policy.TypePriority) == 0 {
		t.Error("type priority lost during overlay")
	}
	if policy.Keywords.MinWordLen != 4 {
		t.Errorf("min_word_len = %d, want default 4", policy.Keywords.MinWordLen)
	}
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"empty priority", func(p *Policy) { p.TypePriority = nil }},
		{"priority without keywords", func(p *Policy) { p.TypePriority = append(p.TypePriority, "Unknown") }},
		{"descending thresholds", func(p *Policy) { p.SizeThresholds.Large = p.SizeThresholds.VeryLarge + 1 }},
		{"zero top_n", func(p *Policy) { p.Keywords.TopN = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := DefaultPolicy()
			tt.mutate(&policy)
			if err := policy.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
