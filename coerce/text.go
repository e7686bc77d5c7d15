package coerce

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// Truncate cuts text to at most max runes. Deterministic, never fails.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// CleanText collapses whitespace and strips HTML markup from a raw text
// value. Raw feeds routinely embed markup in descriptions.
func CleanText(raw string) string {
	cleaned := strings.Join(strings.Fields(raw), " ")
	if !looksLikeHTML(cleaned) {
		return cleaned
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleaned))
	if err == nil {
		cleaned = doc.Text()
	} else {
		cleaned = htmlTagRe.ReplaceAllString(cleaned, " ")
	}
	return strings.Join(strings.Fields(cleaned), " ")
}

func looksLikeHTML(text string) bool {
	return strings.Contains(text, "<") && strings.Contains(text, ">")
}
