package chunking

import (
	"strings"
	"unicode"

	"github.com/poiesic/ragstore/core"
)

// semanticChunker splits a document into sentences and greedily packs
// them into chunks up to the token budget, so chunk boundaries land on
// sentence boundaries whenever the budget allows.
type semanticChunker struct {
	tok       Tokenizer
	maxTokens int
	overlap   int
}

func newSemanticChunker(tok Tokenizer, maxTokens, overlapTokens int) (Chunker, error) {
	return &semanticChunker{tok: tok, maxTokens: maxTokens, overlap: overlapTokens}, nil
}

func (c *semanticChunker) Chunk(doc *core.Document) ([]*core.Chunk, error) {
	sentences := splitSentences(doc.Content)

	packed := packUnits(c.tok, sentences, " ", c.maxTokens, c.overlap)

	pieces := make([]piece, 0, len(packed))
	for _, text := range packed {
		pieces = append(pieces, piece{text: text})
	}
	return buildChunks(c.tok, doc, pieces), nil
}

// splitSentences breaks text at sentence-ending punctuation followed by
// whitespace, and at paragraph breaks. Abbreviation detection is out of
// scope; a false split only moves a chunk boundary.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		boundary := false
		switch r {
		case '.', '!', '?':
			boundary = i+1 >= len(runes) || unicode.IsSpace(runes[i+1])
		case '\n':
			boundary = i+1 < len(runes) && runes[i+1] == '\n'
		}

		if boundary {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
