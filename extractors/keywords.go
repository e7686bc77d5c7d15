package extractors

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kljensen/snowball"
)

var wordRe = regexp.MustCompile(`[a-z]+`)

// keywordExtractor ranks significant description terms by frequency.
// Terms are stop-word filtered and stemmed so inflections count as one
// term; the reported keyword is the surface form seen first.
type keywordExtractor struct {
	policy    KeywordPolicy
	stopWords map[string]struct{}
}

func newKeywordExtractor(policy KeywordPolicy) *keywordExtractor {
	stop := make(map[string]struct{}, len(policy.StopWords))
	for _, w := range policy.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &keywordExtractor{policy: policy, stopWords: stop}
}

type termCount struct {
	surface string
	count   int
	first   int
}

// Extract returns the top-N keywords of a description, comma-joined.
// Deterministic for a given text: ranking is by frequency, ties break by
// first appearance.
func (k *keywordExtractor) Extract(text string) string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)

	counts := make(map[string]*termCount)
	order := make([]string, 0, len(words))
	for i, word := range words {
		if len(word) < k.policy.MinWordLen {
			continue
		}
		if _, stop := k.stopWords[word]; stop {
			continue
		}
		stem, err := snowball.Stem(word, "english", false)
		if err != nil || stem == "" {
			stem = word
		}
		if tc, ok := counts[stem]; ok {
			tc.count++
			continue
		}
		counts[stem] = &termCount{surface: word, count: 1, first: i}
		order = append(order, stem)
	}

	ranked := make([]*termCount, 0, len(order))
	for _, stem := range order {
		ranked = append(ranked, counts[stem])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	n := k.policy.TopN
	if n > len(ranked) {
		n = len(ranked)
	}
	keywords := make([]string, 0, n)
	for _, tc := range ranked[:n] {
		keywords = append(keywords, tc.surface)
	}
	return strings.Join(keywords, ", ")
}
