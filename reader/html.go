package reader

import (
	"context"
	"fmt"
	"io"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/poiesic/ragstore/core"
)

// HTMLReader converts HTML files to markdown, so downstream chunkers see
// the same heading and paragraph structure as native markdown input.
type HTMLReader struct{}

// NewHTMLReader creates a reader for .html and .htm files.
func NewHTMLReader() *HTMLReader {
	return &HTMLReader{}
}

func (r *HTMLReader) Extensions() []string {
	return []string{"html", "htm"}
}

func (r *HTMLReader) Read(ctx context.Context, src io.Reader, filename string) (*core.Document, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", core.ErrRead, filename, err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: converting %s: %w", core.ErrRead, filename, err)
	}

	return newDocument(filename, markdown), nil
}
