package enrich

import (
	"context"
	"strings"

	"github.com/poiesic/ragstore/core"
)

// TitleExtractor is a document enricher that records the document's title
// in its metadata. The title is the first ATX heading, or the first
// non-blank line when the document has no headings.
type TitleExtractor struct{}

func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{}
}

func (e *TitleExtractor) Name() string {
	return "title-extractor"
}

func (e *TitleExtractor) Process(ctx context.Context, doc *core.Document) error {
	var fallback string
	for line := range strings.Lines(doc.Content) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if trimmed := strings.TrimLeft(line, "#"); trimmed != line {
			setTitle(doc, strings.TrimSpace(trimmed))
			return nil
		}
		if fallback == "" {
			fallback = line
		}
	}
	if fallback != "" {
		setTitle(doc, fallback)
	}
	return nil
}

func setTitle(doc *core.Document, title string) {
	if title == "" {
		return
	}
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]string, 1)
	}
	doc.Metadata["title"] = title
}
