// Package reader normalizes raw input files into core.Document values.
//
// A Registry selects a reader by file extension, the way the ingestion
// pipeline discovers documents on disk:
//
//	registry := reader.NewDefaultRegistry()
//	doc, err := registry.ReadFile(ctx, "manuals/setup.pdf")
//
// The default registry handles plain text, markdown, PDF, and HTML.
// Readers produce normalized text plus structural metadata (page counts,
// source filename); they never persist anything.
package reader
