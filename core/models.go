package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical content
// produces identical IDs across runs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID generates the deterministic ID for a chunk of a document.
// The ID is derived from the document identifier and the chunk sequence
// index, so re-ingesting a document overwrites its previous chunks.
func ChunkID(document string, seq int) ID {
	return IDFromContent(document + "#" + strconv.Itoa(seq))
}

// DocumentState tracks a document through the ingestion lifecycle.
type DocumentState int

const (
	// DocumentStatePending means the document was registered but not yet processed.
	DocumentStatePending DocumentState = iota + 1
	// DocumentStateChunking means the document text is being split into chunks.
	DocumentStateChunking
	// DocumentStateEmbedding means chunk embeddings are being generated and stored.
	DocumentStateEmbedding
	// DocumentStateCompleted means the document is fully indexed and queryable.
	DocumentStateCompleted
	// DocumentStateFailed means ingestion stopped with an error.
	DocumentStateFailed
)

// String returns the lowercase name of the state.
func (s DocumentState) String() string {
	switch s {
	case DocumentStatePending:
		return "pending"
	case DocumentStateChunking:
		return "chunking"
	case DocumentStateEmbedding:
		return "embedding"
	case DocumentStateCompleted:
		return "completed"
	case DocumentStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Document represents one ingested legal or insurance document.
// The Identifier doubles as the vector index collection name holding the
// document's chunks.
type Document struct {
	Identifier string
	Title      string
	SourceURL  string
	State      DocumentState
	ChunkCount int
	TextLength int
	UpdatedAt  int64 // Unix microseconds
}

// Chunk is a contiguous span of document text treated as one retrieval unit.
// Chunks are ordered within a document by Seq and carry the embedding vector
// once it has been generated.
type Chunk struct {
	Id       ID
	Document string // owning document identifier
	Seq      int    // stable ordering within the document
	Text     string
	Overlap  int    // characters shared with the previous chunk
	Section  string // structural label such as "Article 3", empty if none
	Vector   []float32
}

// Length returns the chunk text length in characters.
func (c *Chunk) Length() int {
	return len(c.Text)
}

// ResultSource identifies which sub-query produced a retrieval hit.
type ResultSource int

const (
	// SourceVector marks a hit found only by vector similarity search.
	SourceVector ResultSource = iota + 1
	// SourceKeyword marks a hit found only by lexical keyword search.
	SourceKeyword
	// SourceFused marks a hit present in both sub-query result sets.
	SourceFused
)

// String returns the lowercase name of the source.
func (s ResultSource) String() string {
	switch s {
	case SourceVector:
		return "vector"
	case SourceKeyword:
		return "keyword"
	case SourceFused:
		return "fused"
	default:
		return "unknown"
	}
}

// ScoredChunk pairs a chunk with a relevance score and the sub-query that
// produced it.
type ScoredChunk struct {
	Chunk  *Chunk
	Score  float32
	Source ResultSource
}

// RetrievalResult is the ranked, ephemeral output of one hybrid retrieval.
// It is never persisted.
type RetrievalResult struct {
	Query  string
	Chunks []ScoredChunk
}
