package reader

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/ragstore/core"
)

// TextReader reads plain text and markdown files as-is, normalizing
// line endings.
type TextReader struct{}

// NewTextReader creates a reader for .txt, .md, and .markdown files.
func NewTextReader() *TextReader {
	return &TextReader{}
}

func (r *TextReader) Extensions() []string {
	return []string{"txt", "md", "markdown"}
}

func (r *TextReader) Read(ctx context.Context, src io.Reader, filename string) (*core.Document, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", core.ErrRead, filename, err)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	return newDocument(filename, content), nil
}
