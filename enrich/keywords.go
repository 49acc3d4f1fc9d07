package enrich

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/poiesic/ragstore/core"
)

// KeywordTagger is a chunk enricher that tags each chunk with its most
// frequent non-stopword terms under the "keywords" metadata key.
type KeywordTagger struct {
	maxKeywords int
}

// NewKeywordTagger creates a keyword enricher producing at most
// maxKeywords tags per chunk.
func NewKeywordTagger(maxKeywords int) *KeywordTagger {
	if maxKeywords < 1 {
		maxKeywords = 5
	}
	return &KeywordTagger{maxKeywords: maxKeywords}
}

func (e *KeywordTagger) Name() string {
	return "keyword-tagger"
}

func (e *KeywordTagger) Process(ctx context.Context, chunk *core.Chunk) error {
	counts := make(map[string]int)
	for _, word := range strings.FieldsFunc(strings.ToLower(chunk.Content), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(word) < 3 || stopwords[word] {
			continue
		}
		counts[word]++
	}

	if len(counts) == 0 {
		return nil
	}

	keywords := make([]string, 0, len(counts))
	for word := range counts {
		keywords = append(keywords, word)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})
	if len(keywords) > e.maxKeywords {
		keywords = keywords[:e.maxKeywords]
	}

	if chunk.Metadata == nil {
		chunk.Metadata = make(map[string]string, 1)
	}
	chunk.Metadata["keywords"] = strings.Join(keywords, ",")
	return nil
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "has": true,
	"have": true, "was": true, "with": true, "this": true, "that": true,
	"they": true, "from": true, "will": true, "its": true, "our": true,
	"one": true, "his": true, "her": true, "had": true, "were": true,
	"been": true, "their": true, "there": true, "which": true, "when": true,
	"what": true, "into": true, "than": true, "them": true, "then": true,
	"some": true, "also": true, "each": true, "such": true, "only": true,
	"over": true, "more": true, "any": true, "may": true, "these": true,
	"your": true, "about": true, "other": true, "after": true, "before": true,
}
