package chunking

import (
	"maps"
	"strings"

	"github.com/poiesic/ragstore/core"
)

// Chunker turns one normalized document into an ordered sequence of
// bounded-size chunks. The sequence is finite and produced in one call;
// callers consume it exactly once.
type Chunker interface {
	Chunk(doc *core.Document) ([]*core.Chunk, error)
}

// piece is an intermediate text span plus optional metadata contributed
// by the splitting algorithm (a heading, for example).
type piece struct {
	text     string
	metadata map[string]string
}

// splitTokenWindows slices text into windows of at most maxTokens tokens,
// each window after the first starting with the trailing overlap tokens
// of the previous one.
func splitTokenWindows(tok Tokenizer, text string, maxTokens, overlap int) []string {
	tokens := tok.Encode(text)
	if len(tokens) <= maxTokens {
		return []string{text}
	}

	step := maxTokens - overlap
	var windows []string
	for start := 0; start < len(tokens); start += step {
		end := start + maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		windows = append(windows, tok.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}
	return windows
}

// tailText returns the decoded trailing overlap tokens of text, or ""
// when no overlap is configured.
func tailText(tok Tokenizer, text string, overlap int) string {
	if overlap <= 0 {
		return ""
	}
	tokens := tok.Encode(text)
	if len(tokens) <= overlap {
		return text
	}
	return tok.Decode(tokens[len(tokens)-overlap:])
}

// packUnits greedily packs units (paragraphs, sentences) into pieces of
// at most maxTokens tokens, joined by sep. A unit that alone exceeds the
// budget is window-split. When overlap is configured, each piece after
// the first starts with up to overlap trailing tokens of its predecessor;
// the overlap is dropped when it would not leave room for the next unit.
func packUnits(tok Tokenizer, units []string, sep string, maxTokens, overlap int) []string {
	sepTokens := tok.Count(sep)

	var (
		pieces  []string
		current string
		tokens  int
		carry   string
	)

	flush := func() {
		if current == "" {
			return
		}
		pieces = append(pieces, current)
		carry = tailText(tok, current, overlap)
		current = ""
		tokens = 0
	}

	add := func(text string, textTokens int) {
		if current == "" {
			current = text
			tokens = textTokens
			return
		}
		current += sep + text
		tokens += sepTokens + textTokens
	}

	for _, unit := range units {
		unit = strings.TrimSpace(unit)
		if unit == "" {
			continue
		}
		unitTokens := tok.Count(unit)

		if unitTokens > maxTokens {
			flush()
			windows := splitTokenWindows(tok, unit, maxTokens, overlap)
			pieces = append(pieces, windows...)
			carry = tailText(tok, windows[len(windows)-1], overlap)
			continue
		}

		if current != "" && tokens+sepTokens+unitTokens > maxTokens {
			flush()
		}
		if current == "" && carry != "" {
			carryTokens := tok.Count(carry)
			if carryTokens+sepTokens+unitTokens <= maxTokens {
				add(carry, carryTokens)
			}
			carry = ""
		}
		add(unit, unitTokens)
	}

	if current != "" {
		pieces = append(pieces, current)
	}
	return pieces
}

// buildChunks materializes pieces as chunks of doc, numbering them from 0
// and inheriting document metadata.
func buildChunks(tok Tokenizer, doc *core.Document, pieces []piece) []*core.Chunk {
	chunks := make([]*core.Chunk, 0, len(pieces))
	for _, p := range pieces {
		text := strings.TrimRight(p.text, "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		metadata := make(map[string]string, len(doc.Metadata)+len(p.metadata))
		maps.Copy(metadata, doc.Metadata)
		maps.Copy(metadata, p.metadata)

		chunks = append(chunks, &core.Chunk{
			DocumentId: doc.Id,
			Index:      len(chunks),
			Content:    text,
			TokenCount: tok.Count(text),
			Metadata:   metadata,
		})
	}
	return chunks
}
