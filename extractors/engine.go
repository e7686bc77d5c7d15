package extractors

import (
	"log/slog"
	"strings"

	"tendertrail/coerce"
	"tendertrail/schema"
)

// Unified field names the engine knows how to derive.
const (
	fieldTenderValue    = "tender_value"
	fieldTenderCurrency = "tender_currency"
	fieldTenderType     = "tender_type"
	fieldProjectSize    = "project_size"
	fieldKeywords       = "keywords"
)

// Engine runs the extraction pass of the normalization pipeline. It is
// stateless across records and safe for concurrent use.
type Engine struct {
	policy   Policy
	keywords *keywordExtractor
	logger   *slog.Logger
}

// NewEngine builds an engine from a validated policy.
func NewEngine(policy Policy) *Engine {
	return &Engine{
		policy:   policy,
		keywords: newKeywordExtractor(policy.Keywords),
		logger:   slog.Default().With("component", "extraction_engine"),
	}
}

// Apply fills every target field that carries an extract_from directive and
// is still empty after direct mapping. Directly-mapped values always win;
// a derivation that finds nothing leaves the field absent rather than
// guessing. The fields map is mutated in place.
func (e *Engine) Apply(target *schema.TargetSchema, fields map[string]string) {
	for _, f := range target.Fields() {
		if f.ExtractFrom == nil {
			continue
		}
		if fields[f.Name] != "" {
			continue
		}
		input := fields[f.ExtractFrom.Field]
		if input == "" {
			continue
		}

		var derived string
		switch f.Name {
		case fieldTenderCurrency:
			derived = e.extractCurrency(input)
		case fieldTenderType:
			derived = e.ClassifyTenderType(input)
		case fieldProjectSize:
			derived = e.extractProjectSize(input)
		case fieldKeywords:
			derived = e.keywords.Extract(input)
		default:
			e.logger.Warn("no extractor for derived field, leaving absent",
				"field", f.Name, "extract_from", f.ExtractFrom.Field)
			continue
		}

		if derived != "" {
			fields[f.Name] = derived
		}
	}
}

// extractCurrency pulls the ISO code out of an already-normalized monetary
// string. Derivative of tender_value, so the two can never disagree.
func (e *Engine) extractCurrency(value string) string {
	money, err := coerce.ParseMonetary(value)
	if err != nil {
		return ""
	}
	return money.Currency
}

// extractProjectSize buckets the numeric tender value by the policy
// thresholds.
func (e *Engine) extractProjectSize(value string) string {
	money, err := coerce.ParseMonetary(value)
	if err != nil {
		return ""
	}
	th := e.policy.SizeThresholds
	switch {
	case money.Amount < th.Medium:
		return SizeSmall
	case money.Amount < th.Large:
		return SizeMedium
	case money.Amount < th.VeryLarge:
		return SizeLarge
	default:
		return SizeVeryLarge
	}
}

// ClassifyTenderType matches the description against the per-type keyword
// lists. The type with the most hits wins; ties resolve by the fixed
// priority order; zero hits means no classification.
func (e *Engine) ClassifyTenderType(description string) string {
	lowered := strings.ToLower(description)

	best := ""
	bestHits := 0
	for _, tenderType := range e.policy.TypePriority {
		hits := 0
		for _, keyword := range e.policy.TypeKeywords[tenderType] {
			hits += strings.Count(lowered, strings.ToLower(keyword))
		}
		if hits > bestHits {
			best = tenderType
			bestHits = hits
		}
	}
	return best
}
