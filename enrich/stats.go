package enrich

import (
	"context"
	"strconv"
	"strings"

	"github.com/poiesic/ragstore/core"
)

// ContentStats is a chunk enricher that records simple content metrics
// in chunk metadata: character count and word count.
type ContentStats struct{}

// NewContentStats creates the content statistics enricher.
func NewContentStats() *ContentStats {
	return &ContentStats{}
}

func (e *ContentStats) Name() string {
	return "content-stats"
}

func (e *ContentStats) Process(ctx context.Context, chunk *core.Chunk) error {
	if chunk.Metadata == nil {
		chunk.Metadata = make(map[string]string, 2)
	}
	chunk.Metadata["charCount"] = strconv.Itoa(len(chunk.Content))
	chunk.Metadata["wordCount"] = strconv.Itoa(len(strings.Fields(chunk.Content)))
	return nil
}
