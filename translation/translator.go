package translation

import (
	"context"
	"log/slog"

	"golang.org/x/text/language"

	"tendertrail/schema"
)

// Result of a MaybeTranslate call. Original is empty unless a translation
// actually happened, so downstream code can tell "already English" from
// "translated" without a sentinel.
type Result struct {
	Value            string
	Original         string
	DetectedLanguage string
}

// Translator applies best-effort translation to fields flagged
// requires_translation. Detection below MinConfidence is treated as
// English: a wrong translation is worse than none.
type Translator struct {
	provider Provider
	detector interface {
		DetectLanguage(ctx context.Context, text string) (Detection, error)
	}
	cache         *Cache
	minConfidence float64
	logger        *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithCache attaches a translation cache.
func WithCache(cache *Cache) Option {
	return func(t *Translator) { t.cache = cache }
}

// WithMinConfidence overrides the detection confidence threshold.
func WithMinConfidence(min float64) Option {
	return func(t *Translator) { t.minConfidence = min }
}

// NewTranslator creates a translator. A nil provider disables translation
// entirely (detection still runs through the heuristic detector, but
// non-English values pass through unchanged).
func NewTranslator(provider Provider, opts ...Option) *Translator {
	t := &Translator{
		provider:      provider,
		detector:      provider,
		minConfidence: 0.60,
		logger:        slog.Default().With("component", "translator"),
	}
	if provider == nil {
		t.detector = HeuristicDetector{}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MaybeTranslate returns the field value translated to English when the
// field requires it and the text is confidently non-English. Provider
// failures are non-fatal: the original value is returned and the record
// proceeds with degraded quality.
func (t *Translator) MaybeTranslate(ctx context.Context, value string, field schema.TargetField) Result {
	unchanged := Result{Value: value}
	if !field.RequiresTranslation || value == "" {
		return unchanged
	}

	detection, err := t.detector.DetectLanguage(ctx, value)
	if err != nil {
		t.logger.Warn("language detection failed, assuming English",
			"field", field.Name, "error", err)
		return unchanged
	}

	base, _ := detection.Tag.Base()
	if base.String() == "en" || detection.Confidence < t.minConfidence {
		return unchanged
	}

	if t.provider == nil {
		t.logger.Warn("non-English value but no translation provider configured",
			"field", field.Name, "language", detection.Tag.String())
		return unchanged
	}

	cacheKey := "en:" + value
	if t.cache != nil {
		if cached, ok := t.cache.Get(cacheKey); ok {
			return Result{
				Value:            cached,
				Original:         value,
				DetectedLanguage: detection.Tag.String(),
			}
		}
	}

	translated, err := t.provider.Translate(ctx, value, language.English)
	if err != nil || translated == "" {
		t.logger.Warn("translation failed, keeping original text",
			"field", field.Name, "language", detection.Tag.String(), "error", err)
		return unchanged
	}

	if t.cache != nil {
		t.cache.Set(cacheKey, translated)
	}

	return Result{
		Value:            translated,
		Original:         value,
		DetectedLanguage: detection.Tag.String(),
	}
}
