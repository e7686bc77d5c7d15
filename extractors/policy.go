// Package extractors derives target fields that have no direct source
// counterpart: currency and project size from the tender value, tender type
// and keywords from the description. Extraction runs as a second pass over
// the already-mapped record and never overwrites a directly-mapped value.
package extractors

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy holds the tunable extraction rules. The reference behavior is
// underspecified, so keyword lists, priorities and thresholds are
// configuration, not constants.
type Policy struct {
	TypeKeywords map[string][]string `yaml:"type_keywords"`
	// TypePriority resolves ties, first entry wins.
	TypePriority   []string       `yaml:"type_priority"`
	SizeThresholds SizeThresholds `yaml:"size_thresholds"`
	Keywords       KeywordPolicy  `yaml:"keywords"`
}

// SizeThresholds are the monetary boundaries for project size buckets.
// A value below Medium is Small, below Large is Medium, below VeryLarge is
// Large, anything else is Very Large.
type SizeThresholds struct {
	Medium    float64 `yaml:"medium"`
	Large     float64 `yaml:"large"`
	VeryLarge float64 `yaml:"very_large"`
}

// KeywordPolicy controls keyword extraction from descriptions.
type KeywordPolicy struct {
	TopN       int      `yaml:"top_n"`
	MinWordLen int      `yaml:"min_word_len"`
	StopWords  []string `yaml:"stop_words"`
}

// Tender type labels of the unified schema.
const (
	TypeGoods      = "Goods"
	TypeWorks      = "Works"
	TypeServices   = "Services"
	TypeConsulting = "Consulting"
)

// Project size labels of the unified schema.
const (
	SizeSmall     = "Small"
	SizeMedium    = "Medium"
	SizeLarge     = "Large"
	SizeVeryLarge = "Very Large"
)

// DefaultPolicy returns the built-in extraction rules.
func DefaultPolicy() Policy {
	return Policy{
		TypeKeywords: map[string][]string{
			TypeConsulting: {
				"consulting", "consultancy", "consultant", "advisory",
				"technical assistance", "feasibility study", "assessment",
				"supervision", "design services",
			},
			TypeServices: {
				"services", "service", "maintenance", "training",
				"management", "operation", "support", "cleaning", "security",
			},
			TypeWorks: {
				"construction", "works", "rehabilitation", "civil works",
				"building", "infrastructure", "road", "bridge",
				"installation", "upgrade", "renovation",
			},
			TypeGoods: {
				"supply", "goods", "equipment", "vehicles", "materials",
				"delivery", "procurement of goods", "purchase",
			},
		},
		TypePriority: []string{TypeConsulting, TypeServices, TypeWorks, TypeGoods},
		SizeThresholds: SizeThresholds{
			Medium:    500_000,
			Large:     2_000_000,
			VeryLarge: 10_000_000,
		},
		Keywords: KeywordPolicy{
			TopN:       5,
			MinWordLen: 4,
			StopWords:  defaultStopWords,
		},
	}
}

// LoadPolicy reads a yaml policy file laid over the defaults. Missing keys
// keep their default values.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse policy file: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return policy, err
	}
	return policy, nil
}

// Validate rejects policies that would make extraction ambiguous.
func (p Policy) Validate() error {
	if len(p.TypePriority) == 0 {
		return fmt.Errorf("policy has no type priority order")
	}
	for _, t := range p.TypePriority {
		if _, ok := p.TypeKeywords[t]; !ok {
			return fmt.Errorf("type %q in priority order has no keyword list", t)
		}
	}
	th := p.SizeThresholds
	if th.Medium <= 0 || th.Large <= th.Medium || th.VeryLarge <= th.Large {
		return fmt.Errorf("size thresholds must be ascending and positive")
	}
	if p.Keywords.TopN <= 0 {
		return fmt.Errorf("keywords top_n must be positive")
	}
	return nil
}

var defaultStopWords = []string{
	"a", "about", "above", "after", "again", "all", "also", "an", "and",
	"any", "are", "as", "at", "be", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does",
	"down", "during", "each", "few", "for", "from", "further", "had",
	"has", "have", "having", "here", "how", "if", "in", "into", "is",
	"it", "its", "itself", "more", "most", "must", "no", "nor", "not",
	"of", "off", "on", "once", "only", "or", "other", "our", "out",
	"over", "own", "same", "shall", "should", "so", "some", "such",
	"than", "that", "the", "their", "them", "then", "there", "these",
	"they", "this", "those", "through", "to", "too", "under", "until",
	"up", "very", "was", "we", "were", "what", "when", "where", "which",
	"while", "who", "whom", "why", "will", "with", "would",
}
