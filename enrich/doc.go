// Package enrich defines the enrichment hooks that run between reading
// and chunking (document level) and between chunking and persistence
// (chunk level).
//
// Enrichment is always best-effort: the pipeline logs and skips a
// failing enricher and continues with the next one. An enricher can
// therefore never fail a document.
package enrich
