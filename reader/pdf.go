package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/ledongthuc/pdf"
	"github.com/poiesic/ragstore/core"
)

// PDFReader extracts the plain text content of PDF files.
type PDFReader struct{}

// NewPDFReader creates a reader for .pdf files.
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

func (r *PDFReader) Extensions() []string {
	return []string{"pdf"}
}

func (r *PDFReader) Read(ctx context.Context, src io.Reader, filename string) (*core.Document, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", core.ErrRead, filename, err)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", core.ErrRead, filename, err)
	}

	text, err := pdfReader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("%w: extracting text from %s: %w", core.ErrRead, filename, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(text); err != nil {
		return nil, fmt.Errorf("%w: extracting text from %s: %w", core.ErrRead, filename, err)
	}

	doc := newDocument(filename, buf.String())
	doc.Metadata["pages"] = strconv.Itoa(pdfReader.NumPage())
	return doc, nil
}
