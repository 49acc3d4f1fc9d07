// Package reembed provides functionality for reembedding existing chunk
// records with new or updated embedding models.
//
// Records are walked one document partition at a time and rewritten in
// place, keeping ids and chunk order stable so existing references stay
// valid. Embedding calls are retried with exponential backoff and
// progress is reported as the walk proceeds.
package reembed
