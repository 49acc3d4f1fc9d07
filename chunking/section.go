package chunking

import (
	"strings"

	"github.com/poiesic/ragstore/core"
)

// sectionChunker splits a document at blank-line boundaries and greedily
// packs consecutive paragraphs into chunks up to the token budget.
type sectionChunker struct {
	tok       Tokenizer
	maxTokens int
	overlap   int
}

func newSectionChunker(tok Tokenizer, maxTokens, overlapTokens int) (Chunker, error) {
	return &sectionChunker{tok: tok, maxTokens: maxTokens, overlap: overlapTokens}, nil
}

func (c *sectionChunker) Chunk(doc *core.Document) ([]*core.Chunk, error) {
	normalized := strings.ReplaceAll(doc.Content, "\r\n", "\n")
	paragraphs := strings.Split(normalized, "\n\n")

	packed := packUnits(c.tok, paragraphs, "\n\n", c.maxTokens, c.overlap)

	pieces := make([]piece, 0, len(packed))
	for _, text := range packed {
		pieces = append(pieces, piece{text: text})
	}
	return buildChunks(c.tok, doc, pieces), nil
}
