// Package translation detects the language of text fields and translates
// non-English values to English, preserving the original text. Translation
// is best-effort enrichment: provider failures degrade the record, they
// never fail it.
package translation

import (
	"context"
	"time"

	"golang.org/x/text/language"
)

// Detection is a provider's language verdict for a piece of text.
type Detection struct {
	Tag        language.Tag
	Confidence float64
}

// Provider is the black-box translation capability. Implementations own
// their request-level timeout and throttling policy.
type Provider interface {
	DetectLanguage(ctx context.Context, text string) (Detection, error)
	Translate(ctx context.Context, text string, target language.Tag) (string, error)
}

// RetryConfig controls retry behavior of HTTP providers.
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}
