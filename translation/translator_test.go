package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/text/language"

	"tendertrail/schema"
)

// fakeProvider is a scriptable Provider for translator tests.
type fakeProvider struct {
	detection    Detection
	detectErr    error
	translated   string
	translateErr error
	translations int
}

func (f *fakeProvider) DetectLanguage(_ context.Context, _ string) (Detection, error) {
	return f.detection, f.detectErr
}

func (f *fakeProvider) Translate(_ context.Context, _ string, _ language.Tag) (string, error) {
	f.translations++
	return f.translated, f.translateErr
}

var translatableField = schema.TargetField{
	Name:                "description",
	Type:                schema.FieldString,
	RequiresTranslation: true,
}

func TestMaybeTranslateNonEnglish(t *testing.T) {
	provider := &fakeProvider{
		detection:  Detection{Tag: language.French, Confidence: 0.95},
		translated: "Construction of a bridge",
	}
	translator := NewTranslator(provider)

	got := translator.MaybeTranslate(context.Background(), "Construction d'un pont", translatableField)
	if got.Value != "Construction of a bridge" {
		t.Errorf("Value = %q", got.Value)
	}
	if got.Original != "Construction d'un pont" {
		t.Errorf("Original = %q, want the untranslated text", got.Original)
	}
	if got.DetectedLanguage != "fr" {
		t.Errorf("DetectedLanguage = %q, want fr", got.DetectedLanguage)
	}
}

func TestMaybeTranslateEnglishPassthrough(t *testing.T) {
	provider := &fakeProvider{
		detection:  Detection{Tag: language.English, Confidence: 0.99},
		translated: "should never be used",
	}
	translator := NewTranslator(provider)

	got := translator.MaybeTranslate(context.Background(), "Road construction works", translatableField)
	if got.Value != "Road construction works" {
		t.Errorf("Value = %q", got.Value)
	}
	if got.Original != "" {
		t.Errorf("Original = %q, must stay empty when nothing was translated", got.Original)
	}
	if provider.translations != 0 {
		t.Errorf("provider called %d times for English text", provider.translations)
	}
}

func TestMaybeTranslateLowConfidenceTreatedAsEnglish(t *testing.T) {
	provider := &fakeProvider{
		detection:  Detection{Tag: language.French, Confidence: 0.40},
		translated: "should never be used",
	}
	translator := NewTranslator(provider)

	got := translator.MaybeTranslate(context.Background(), "Pont", translatableField)
	if got.Value != "Pont" || got.Original != "" {
		t.Errorf("low-confidence detection must pass through, got %+v", got)
	}
	if provider.translations != 0 {
		t.Error("provider called despite low confidence")
	}
}

func TestMaybeTranslateSkipsUnflaggedField(t *testing.T) {
	provider := &fakeProvider{
		detection:  Detection{Tag: language.French, Confidence: 0.99},
		translated: "should never be used",
	}
	translator := NewTranslator(provider)

	plain := schema.TargetField{Name: "title", Type: schema.FieldString}
	got := translator.MaybeTranslate(context.Background(), "Construction d'un pont", plain)
	if got.Value != "Construction d'un pont" || got.Original != "" {
		t.Errorf("unflagged field must pass through, got %+v", got)
	}
}

func TestMaybeTranslateProviderFailureNonFatal(t *testing.T) {
	provider := &fakeProvider{
		detection:    Detection{Tag: language.Spanish, Confidence: 0.90},
		translateErr: errors.New("upstream unavailable"),
	}
	translator := NewTranslator(provider)

	got := translator.MaybeTranslate(context.Background(), "Construcción de un puente", translatableField)
	if got.Value != "Construcción de un puente" {
		t.Errorf("Value = %q, want original text on provider failure", got.Value)
	}
	if got.Original != "" {
		t.Errorf("Original = %q, must stay empty when no translation happened", got.Original)
	}
}

func TestMaybeTranslateNilProvider(t *testing.T) {
	translator := NewTranslator(nil)

	got := translator.MaybeTranslate(context.Background(),
		"Le projet comprend la construction des routes dans les zones rurales et la supervision des travaux pour une durée de deux ans",
		translatableField)
	if got.Value == "" || got.Original != "" {
		t.Errorf("nil provider must pass text through unchanged, got %+v", got)
	}
}

func TestMaybeTranslateUsesCache(t *testing.T) {
	provider := &fakeProvider{
		detection:  Detection{Tag: language.French, Confidence: 0.95},
		translated: "Bridge works",
	}
	cache := NewCache(CacheConfig{Enabled: true, TTL: time.Minute})
	translator := NewTranslator(provider, WithCache(cache))

	for i := 0; i < 3; i++ {
		got := translator.MaybeTranslate(context.Background(), "Travaux de pont", translatableField)
		if got.Value != "Bridge works" || got.Original != "Travaux de pont" {
			t.Fatalf("call %d: %+v", i, got)
		}
	}
	if provider.translations != 1 {
		t.Errorf("provider called %d times, want 1 (cache must absorb repeats)", provider.translations)
	}
	if stats := cache.Stats(); stats.Hits != 2 {
		t.Errorf("cache hits = %d, want 2", stats.Hits)
	}
}

func TestMaybeTranslateCustomConfidence(t *testing.T) {
	provider := &fakeProvider{
		detection:  Detection{Tag: language.French, Confidence: 0.70},
		translated: "translated",
	}
	translator := NewTranslator(provider, WithMinConfidence(0.90))

	got := translator.MaybeTranslate(context.Background(), "Texte français", translatableField)
	if got.Original != "" {
		t.Errorf("0.70 < 0.90 threshold must pass through, got %+v", got)
	}
}
