package core

import (
	"errors"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted types. Timestamps are
// stored as Unix microseconds.

var errNegativeLength = errors.New("negative length")

// ChunkRecordMUS serializes ChunkRecord values.
var ChunkRecordMUS = chunkRecordMUS{}

var _ mus.Serializer[ChunkRecord] = ChunkRecordMUS

type chunkRecordMUS struct{}

func (s chunkRecordMUS) Marshal(r ChunkRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.DocumentId, bs[n:])
	n += ord.String.Marshal(r.Content, bs[n:])
	n += marshalVector(r.Embedding, bs[n:])
	n += marshalMetadata(r.Metadata, bs[n:])
	n += varint.Int.Marshal(r.ChunkIndex, bs[n:])
	n += varint.Int.Marshal(r.ContentLength, bs[n:])
	n += varint.Int64.Marshal(r.CreatedAt.UnixMicro(), bs[n:])
	return n
}

func (s chunkRecordMUS) Unmarshal(bs []byte) (r ChunkRecord, n int, err error) {
	var n1 int
	if r.Id, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if r.DocumentId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Embedding, n1, err = unmarshalVector(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Metadata, n1, err = unmarshalMetadata(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.ContentLength, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	r.CreatedAt = time.UnixMicro(micros).UTC()
	return r, n, nil
}

func (s chunkRecordMUS) Size(r ChunkRecord) (size int) {
	size = ord.String.Size(r.Id)
	size += ord.String.Size(r.DocumentId)
	size += ord.String.Size(r.Content)
	size += sizeVector(r.Embedding)
	size += sizeMetadata(r.Metadata)
	size += varint.Int.Size(r.ChunkIndex)
	size += varint.Int.Size(r.ContentLength)
	size += varint.Int64.Size(r.CreatedAt.UnixMicro())
	return size
}

func (s chunkRecordMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, errNegativeLength
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
			return nil, n + n1, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeVector(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

func marshalMetadata(m map[string]string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(m), bs)
	for k, v := range m {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

func unmarshalMetadata(bs []byte) (m map[string]string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, errNegativeLength
	}
	if length == 0 {
		return nil, n, nil
	}
	m = make(map[string]string, length)
	var (
		k, v string
		n1   int
	)
	for i := 0; i < length; i++ {
		if k, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n + n1, err
		}
		n += n1
		if v, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n + n1, err
		}
		n += n1
		m[k] = v
	}
	return m, n, nil
}

func sizeMetadata(m map[string]string) (size int) {
	size = varint.Int.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k)
		size += ord.String.Size(v)
	}
	return size
}
