package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix    = "chkrec"
	documentRecordPrefix = "docrec"
)

// makeCollectionPrefix generates the key prefix shared by all chunks of a
// collection. Format: prefix:collection:
func makeCollectionPrefix(collection string) []byte {
	return []byte(chunkRecordPrefix + ":" + collection + ":")
}

// makeChunkKey generates a key for a chunk by collection and sequence index.
// The sequence is written in BigEndian order so lexicographic iteration
// yields chunks in document order.
func makeChunkKey(collection string, seq int) []byte {
	prefix := makeCollectionPrefix(collection)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(seq))
	return buf
}

// makeDocumentKey generates a key for a document record by identifier.
func makeDocumentKey(identifier string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentRecordPrefix, identifier))
}
