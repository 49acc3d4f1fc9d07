package chunking

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"github.com/poiesic/ragstore/core"
)

// Tokenizer counts and slices text in token units. Implementations must
// be thread-safe for concurrent use.
type Tokenizer interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Encode converts text into its token ids.
	Encode(text string) []int

	// Decode converts token ids back into text.
	Decode(tokens []int) string
}

// tiktokenTokenizer implements Tokenizer using the tiktoken BPE vocabularies.
type tiktokenTokenizer struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenizer creates a tokenizer for a model identifier. The identifier
// may name a model ("gpt-4o") or an encoding ("cl100k_base").
func NewTokenizer(model string) (Tokenizer, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding(model)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown tokenizer model %q", core.ErrConfiguration, model)
		}
	}

	return &tiktokenTokenizer{encoding: encoding}, nil
}

func (t *tiktokenTokenizer) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

func (t *tiktokenTokenizer) Encode(text string) []int {
	return t.encoding.Encode(text, nil, nil)
}

func (t *tiktokenTokenizer) Decode(tokens []int) string {
	return t.encoding.Decode(tokens)
}
