package chunking

import (
	"strings"

	"github.com/poiesic/ragstore/core"
)

// headerChunker splits a document at markdown heading boundaries. Each
// heading opens a new section; sections that exceed the token budget are
// window-split, sections within the budget become exactly one chunk.
type headerChunker struct {
	tok       Tokenizer
	maxTokens int
	overlap   int
}

func newHeaderChunker(tok Tokenizer, maxTokens, overlapTokens int) (Chunker, error) {
	return &headerChunker{tok: tok, maxTokens: maxTokens, overlap: overlapTokens}, nil
}

type headerSection struct {
	heading string
	body    strings.Builder
}

func (c *headerChunker) Chunk(doc *core.Document) ([]*core.Chunk, error) {
	var sections []*headerSection
	current := &headerSection{}

	for _, line := range strings.Split(doc.Content, "\n") {
		if heading, ok := headingText(line); ok {
			if strings.TrimSpace(current.body.String()) != "" || current.heading != "" {
				sections = append(sections, current)
			}
			current = &headerSection{heading: heading}
			current.body.WriteString(line)
			current.body.WriteString("\n")
			continue
		}
		current.body.WriteString(line)
		current.body.WriteString("\n")
	}
	if strings.TrimSpace(current.body.String()) != "" || current.heading != "" {
		sections = append(sections, current)
	}

	var pieces []piece
	for _, section := range sections {
		text := strings.TrimSpace(section.body.String())
		if text == "" {
			continue
		}

		var metadata map[string]string
		if section.heading != "" {
			metadata = map[string]string{"heading": section.heading}
		}
		for _, window := range splitTokenWindows(c.tok, text, c.maxTokens, c.overlap) {
			pieces = append(pieces, piece{text: window, metadata: metadata})
		}
	}

	return buildChunks(c.tok, doc, pieces), nil
}

// headingText reports whether line is a markdown ATX heading and returns
// its text without the leading hashes.
func headingText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level > 6 || level == len(trimmed) || trimmed[level] != ' ' {
		return "", false
	}
	return strings.TrimSpace(trimmed[level:]), true
}
