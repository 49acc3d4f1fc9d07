package badger

import "encoding/binary"

// Key layout. The document id is the partition key: it appears in every
// record key, so all chunks of one document share a prefix and
// per-document reads and deletes stay single-prefix scans.
//
//	<container>:rec:<documentId>:<chunkId>            -> marshaled ChunkRecord
//	<container>:idx:<documentId>:<BE chunkIndex><chunkId> -> chunkId
//
// The index key embeds the chunk index in BigEndian so lexicographic
// iteration yields ChunkIndex order. The chunk id suffix disambiguates
// duplicate indices from repeated ingestion of the same document.
const (
	recordSegment = ":rec:"
	indexSegment  = ":idx:"
)

// makeRecordKey generates the primary key for a chunk record.
func makeRecordKey(container, documentId, chunkId string) []byte {
	key := make([]byte, 0, len(container)+len(recordSegment)+len(documentId)+1+len(chunkId))
	key = append(key, container...)
	key = append(key, recordSegment...)
	key = append(key, documentId...)
	key = append(key, ':')
	key = append(key, chunkId...)
	return key
}

// makeRecordPrefix generates the partition prefix covering all records of
// one document.
func makeRecordPrefix(container, documentId string) []byte {
	prefix := make([]byte, 0, len(container)+len(recordSegment)+len(documentId)+1)
	prefix = append(prefix, container...)
	prefix = append(prefix, recordSegment...)
	prefix = append(prefix, documentId...)
	prefix = append(prefix, ':')
	return prefix
}

// makeAllRecordsPrefix generates the prefix covering every record in the
// container, across all partitions. Used only by similarity search.
func makeAllRecordsPrefix(container string) []byte {
	return []byte(container + recordSegment)
}

// makeIndexKey generates a composite key for the chunk-index ordering index.
func makeIndexKey(container, documentId string, chunkIndex int, chunkId string) []byte {
	prefix := makeIndexPrefix(container, documentId)
	key := make([]byte, len(prefix)+4+len(chunkId))
	offset := copy(key, prefix)
	// BigEndian so lexicographic sort matches numeric order
	binary.BigEndian.PutUint32(key[offset:], uint32(chunkIndex))
	copy(key[offset+4:], chunkId)
	return key
}

// makeIndexPrefix generates the partition prefix for the ordering index.
func makeIndexPrefix(container, documentId string) []byte {
	prefix := make([]byte, 0, len(container)+len(indexSegment)+len(documentId)+1)
	prefix = append(prefix, container...)
	prefix = append(prefix, indexSegment...)
	prefix = append(prefix, documentId...)
	prefix = append(prefix, ':')
	return prefix
}
