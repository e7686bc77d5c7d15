package translation

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// HeuristicDetector detects the language of a text by counting function
// words. It exists so the pipeline keeps working without a configured
// provider; its confidence is deliberately conservative, which makes the
// translator fall back to the treat-as-English default unless the evidence
// is strong.
type HeuristicDetector struct{}

var detectorWordRe = regexp.MustCompile(`\p{L}+`)

// Function words per language. Short, high-frequency words only: content
// words would bias detection toward specific domains.
var functionWords = map[string][]string{
	"en": {"the", "and", "of", "to", "in", "for", "is", "with", "that", "will", "are", "this", "from"},
	"fr": {"le", "la", "les", "des", "un", "une", "et", "de", "du", "pour", "dans", "est", "avec", "sur"},
	"es": {"el", "la", "los", "las", "un", "una", "y", "de", "del", "para", "en", "es", "con", "por"},
	"de": {"der", "die", "das", "und", "von", "zu", "mit", "für", "ist", "den", "dem", "ein", "eine"},
	"pt": {"o", "os", "um", "uma", "e", "de", "do", "da", "para", "em", "com", "por", "que"},
}

// DetectLanguage scores each known language by function-word hits.
// Confidence is the winning language's share of hits, scaled down so a
// short text cannot claim certainty. Never returns an error.
func (HeuristicDetector) DetectLanguage(_ context.Context, text string) (Detection, error) {
	words := detectorWordRe.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return Detection{Tag: language.English, Confidence: 0}, nil
	}

	wordSet := make(map[string]int, len(words))
	for _, w := range words {
		wordSet[w]++
	}

	bestLang := "en"
	bestHits := 0
	totalHits := 0
	for _, lang := range []string{"en", "fr", "es", "de", "pt"} {
		hits := 0
		for _, fw := range functionWords[lang] {
			hits += wordSet[fw]
		}
		totalHits += hits
		if hits > bestHits {
			bestLang = lang
			bestHits = hits
		}
	}

	if totalHits == 0 {
		return Detection{Tag: language.English, Confidence: 0}, nil
	}

	confidence := float64(bestHits) / float64(totalHits)
	// Few total hits means little evidence regardless of the share.
	if totalHits < 5 {
		confidence *= float64(totalHits) / 5
	}

	tag, err := language.Parse(bestLang)
	if err != nil {
		tag = language.English
	}
	return Detection{Tag: tag, Confidence: confidence}, nil
}
