package reader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/ragstore/core"
)

// Reader normalizes one raw input stream into a Document.
type Reader interface {
	// Read parses the stream and returns a normalized document. The
	// document id is derived from filename, without its extension.
	// Fails with an error wrapping core.ErrRead on unparseable input.
	Read(ctx context.Context, r io.Reader, filename string) (*core.Document, error)

	// Extensions lists the lowercase file extensions (without dot) this
	// reader handles.
	Extensions() []string
}

// Registry maps file extensions to readers.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// NewDefaultRegistry creates a registry with the built-in readers:
// plain text, markdown, PDF, and HTML.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(NewTextReader())
	registry.Register(NewPDFReader())
	registry.Register(NewHTMLReader())
	return registry
}

// Register adds a reader for each extension it declares. Registering an
// extension twice replaces its reader.
func (r *Registry) Register(reader Reader) {
	for _, ext := range reader.Extensions() {
		r.readers[strings.ToLower(ext)] = reader
	}
}

// ForPath returns the reader for the given file path, if one is registered.
func (r *Registry) ForPath(path string) (Reader, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	reader, ok := r.readers[ext]
	return reader, ok
}

// ReadFile opens and normalizes one file using the reader registered for
// its extension. Failures wrap core.ErrRead; a missing file surfaces the
// underlying os error for the caller to classify.
func (r *Registry) ReadFile(ctx context.Context, path string) (*core.Document, error) {
	reader, ok := r.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: no reader registered for %q", core.ErrRead, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRead, err)
	}
	defer f.Close()

	doc, err := reader.Read(ctx, f, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	doc.Source = path
	return doc, nil
}

// DocumentId derives a document id from a filename: the base name
// without its extension. Colons are replaced because the id becomes a
// storage partition key, where ':' separates key segments.
func DocumentId(filename string) string {
	base := filepath.Base(filename)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(id, ":", "_")
}

// newDocument assembles a Document with the standard metadata every
// reader provides.
func newDocument(filename, content string) *core.Document {
	return &core.Document{
		Id:      DocumentId(filename),
		Content: content,
		Metadata: map[string]string{
			"filename": filepath.Base(filename),
		},
	}
}
