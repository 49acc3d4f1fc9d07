package badger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ragstore/core"
	"github.com/poiesic/ragstore/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
// Records live under a container namespace and are partitioned by
// document id.
type ChunkRepository struct {
	backend   *Backend
	container string
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository in the given container.
func NewChunkRepository(backend *Backend, container string) (*ChunkRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	if container == "" {
		return nil, errors.New("container required")
	}

	return &ChunkRepository{
		backend:   backend,
		container: container,
	}, nil
}

// Close releases repository resources. The underlying backend is shared
// and closed separately.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunkRecord persists one chunk record and its ordering index entry.
// Both writes commit atomically; nothing is visible on failure. Adding a
// record whose key already exists fails with ErrDuplicateKey; rewrites go
// through UpdateChunkRecord.
func (r *ChunkRepository) AddChunkRecord(ctx context.Context, record *core.ChunkRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(r.container, record.DocumentId, record.Id)
		if _, err := tx.Get(key); err == nil {
			return fmt.Errorf("%w: %s/%s", storage.ErrDuplicateKey, record.DocumentId, record.Id)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := tx.Set(key, storage.MarshalChunkRecord(record)); err != nil {
			return err
		}

		indexKey := makeIndexKey(r.container, record.DocumentId, record.ChunkIndex, record.Id)
		if err := tx.Set(indexKey, []byte(record.Id)); err != nil {
			return err
		}

		return commitTx(tx)
	}, true)
}

// UpdateChunkRecord rewrites an existing record in place.
func (r *ChunkRepository) UpdateChunkRecord(ctx context.Context, record *core.ChunkRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(r.container, record.DocumentId, record.Id)

		old, err := r.readRecord(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		if err := tx.Set(key, storage.MarshalChunkRecord(record)); err != nil {
			return err
		}

		if old.ChunkIndex != record.ChunkIndex {
			oldIndexKey := makeIndexKey(r.container, old.DocumentId, old.ChunkIndex, old.Id)
			if err := tx.Delete(oldIndexKey); err != nil {
				return err
			}
			newIndexKey := makeIndexKey(r.container, record.DocumentId, record.ChunkIndex, record.Id)
			if err := tx.Set(newIndexKey, []byte(record.Id)); err != nil {
				return err
			}
		}

		return commitTx(tx)
	}, true)
}

// GetChunkRecord retrieves a single record by id within its partition.
func (r *ChunkRepository) GetChunkRecord(ctx context.Context, documentId, chunkId string) (*core.ChunkRecord, error) {
	var record *core.ChunkRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = r.readRecord(tx, makeRecordKey(r.container, documentId, chunkId))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, storage.ErrNotFound
	}

	return record, nil
}

// GetChunkRecordsByDocument retrieves all records of one document in
// ChunkIndex order by walking the ordering index within the partition.
func (r *ChunkRepository) GetChunkRecordsByDocument(ctx context.Context, documentId string) ([]*core.ChunkRecord, error) {
	records := []*core.ChunkRecord{}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeIndexPrefix(r.container, documentId)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunkId string
			err := iter.Item().Value(func(val []byte) error {
				chunkId = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			record, err := r.readRecord(tx, makeRecordKey(r.container, documentId, chunkId))
			if err != nil {
				return err
			}
			if record == nil {
				// Stale index entry, skip
				continue
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ListChunkIds returns the ids of all records in a document's partition
// in ChunkIndex order.
func (r *ChunkRepository) ListChunkIds(ctx context.Context, documentId string) ([]string, error) {
	ids := []string{}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeIndexPrefix(r.container, documentId)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ListDocumentIds returns every distinct document id in the container, in
// lexicographic order. Walks record keys only, without loading values.
func (r *ChunkRepository) ListDocumentIds(ctx context.Context) ([]string, error) {
	ids := []string{}
	prefix := makeAllRecordsPrefix(r.container)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			// Key layout: <prefix><documentId>:<chunkId>; the chunk id is a
			// uuid and never contains ':'.
			suffix := string(iter.Item().Key()[len(prefix):])
			cut := strings.LastIndexByte(suffix, ':')
			if cut < 0 {
				continue
			}
			documentId := suffix[:cut]
			if len(ids) == 0 || ids[len(ids)-1] != documentId {
				ids = append(ids, documentId)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// DeleteChunkRecord removes one record and its index entry.
// Returns whether the record existed and was removed.
func (r *ChunkRepository) DeleteChunkRecord(ctx context.Context, documentId, chunkId string) (bool, error) {
	existed := false

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(r.container, documentId, chunkId)

		record, err := r.readRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return nil
		}
		existed = true

		if err := tx.Delete(key); err != nil {
			return err
		}
		indexKey := makeIndexKey(r.container, documentId, record.ChunkIndex, record.Id)
		if err := tx.Delete(indexKey); err != nil {
			return err
		}

		return commitTx(tx)
	}, true)
	if err != nil {
		return false, err
	}

	return existed, nil
}

// FindSimilar scans every record in the container and ranks by cosine
// similarity. Returns at most limit results, most similar first.
func (r *ChunkRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.SearchResult, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", storage.ErrInvalidQuery)
	}

	results := []*core.SearchResult{}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeAllRecordsPrefix(r.container)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.ChunkRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalChunkRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Embedding) == 0 {
				continue
			}

			results = append(results, &core.SearchResult{
				ChunkId:    record.Id,
				DocumentId: record.DocumentId,
				Content:    record.Content,
				Similarity: cosineSimilarity(vector, record.Embedding),
				Metadata:   record.Metadata,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})

	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// readRecord loads and unmarshals a record, returning nil when the key
// doesn't exist.
func (r *ChunkRepository) readRecord(tx *badger.Txn, key []byte) (*core.ChunkRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.ChunkRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalChunkRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Vectors of differing length are compared over the shorter prefix.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
