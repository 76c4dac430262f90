package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/counsel/core"
	"github.com/poiesic/counsel/index"
)

// Store implements index.VectorIndex and index.DocumentStore on BadgerDB.
// Chunks live under per-collection key ranges ordered by sequence index;
// vector search is a brute-force scan, which is adequate for per-document
// collections bounded by the chunker's ceiling.
type Store struct {
	backend *Backend
	logger  *slog.Logger
}

var _ index.VectorIndex = (*Store)(nil)
var _ index.DocumentStore = (*Store)(nil)

// NewStore creates a store on top of an open backend.
func NewStore(backend *Backend) *Store {
	return &Store{
		backend: backend,
		logger:  slog.Default().With("component", "badger-index"),
	}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// UpsertChunks writes chunks with their vectors into a collection.
func (s *Store) UpsertChunks(ctx context.Context, collection string, chunks ...*core.Chunk) error {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := makeChunkKey(collection, chunk.Seq)
			if err := tx.Set(key, index.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: %w", index.ErrIndexUnavailable, err)
	}

	s.logger.Debug("upserted chunks", "collection", collection, "count", len(chunks))
	return nil
}

// VectorSearch returns up to limit chunks by descending dot-product
// similarity to the query vector.
func (s *Store) VectorSearch(ctx context.Context, collection string, vector []float32, limit int) ([]core.ScoredChunk, error) {
	var results []core.ScoredChunk

	err := s.forEachChunk(collection, func(chunk *core.Chunk) {
		if len(chunk.Vector) == 0 {
			return
		}
		results = append(results, core.ScoredChunk{
			Chunk:  chunk,
			Score:  dotProduct(vector, chunk.Vector),
			Source: core.SourceVector,
		})
	})
	if err != nil {
		return nil, err
	}

	sortScored(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// KeywordSearch returns up to limit chunks by descending lexical score.
func (s *Store) KeywordSearch(ctx context.Context, collection string, query string, limit int) ([]core.ScoredChunk, error) {
	queryTerms := termCounts(tokenizeAndFilter(query))

	var results []core.ScoredChunk
	err := s.forEachChunk(collection, func(chunk *core.Chunk) {
		score := keywordScore(queryTerms, chunk.Text)
		if score <= 0 {
			return
		}
		results = append(results, core.ScoredChunk{
			Chunk:  chunk,
			Score:  score,
			Source: core.SourceKeyword,
		})
	})
	if err != nil {
		return nil, err
	}

	sortScored(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// HasCollection reports whether a collection holds any chunks.
func (s *Store) HasCollection(ctx context.Context, collection string) (bool, error) {
	exists := false
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionPrefix(collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		iter.Rewind()
		exists = iter.Valid()
		return nil
	}, false)
	if err != nil {
		return false, fmt.Errorf("%w: %w", index.ErrIndexUnavailable, err)
	}
	return exists, nil
}

// CollectionSize returns the number of chunks in a collection.
func (s *Store) CollectionSize(ctx context.Context, collection string) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionPrefix(collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", index.ErrIndexUnavailable, err)
	}
	if count == 0 {
		return 0, index.ErrCollectionNotFound
	}
	return count, nil
}

// DeleteCollection removes all chunks of a collection. Idempotent.
func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionPrefix(collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: %w", index.ErrIndexUnavailable, err)
	}

	s.logger.Debug("deleted collection", "collection", collection)
	return nil
}

// PutDocument stores or replaces a document record.
func (s *Store) PutDocument(ctx context.Context, document *core.Document) error {
	if err := core.ValidateDocument(document); err != nil {
		return err
	}
	document.UpdatedAt = time.Now().UTC().UnixMicro()

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(document.Identifier)
		if err := tx.Set(key, index.MarshalDocument(document)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: %w", index.ErrIndexUnavailable, err)
	}
	return nil
}

// GetDocument retrieves a document by identifier.
func (s *Store) GetDocument(ctx context.Context, identifier string) (*core.Document, error) {
	var document *core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		document, err = readDocument(tx, makeDocumentKey(identifier))
		return err
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrIndexUnavailable, err)
	}
	if document == nil {
		return nil, index.ErrDocumentNotFound
	}
	return document, nil
}

// SetDocumentState updates only the lifecycle state of a document.
func (s *Store) SetDocumentState(ctx context.Context, identifier string, state core.DocumentState) error {
	if err := core.ValidateDocumentState(state); err != nil {
		return err
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(identifier)
		document, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if document == nil {
			return index.ErrDocumentNotFound
		}

		document.State = state
		document.UpdatedAt = time.Now().UTC().UnixMicro()
		if err := tx.Set(key, index.MarshalDocument(document)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return wrapDocumentErr(err)
}

// DeleteDocument removes a document record.
func (s *Store) DeleteDocument(ctx context.Context, identifier string) error {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(identifier)
		document, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if document == nil {
			return index.ErrDocumentNotFound
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return wrapDocumentErr(err)
}

// wrapDocumentErr marks backend failures as ErrIndexUnavailable while
// letting missing-record sentinels through untouched.
func wrapDocumentErr(err error) error {
	if err == nil || errors.Is(err, index.ErrDocumentNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", index.ErrIndexUnavailable, err)
}

// forEachChunk iterates all chunks of a collection in sequence order.
// Returns ErrCollectionNotFound when the collection holds no chunks.
func (s *Store) forEachChunk(collection string, fn func(chunk *core.Chunk)) error {
	found := false
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			found = true

			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = index.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			fn(chunk)
		}
		return nil
	}, false)
	if err != nil {
		return fmt.Errorf("%w: %w", index.ErrIndexUnavailable, err)
	}
	if !found {
		return index.ErrCollectionNotFound
	}
	return nil
}

// sortScored orders results by score descending, breaking ties by ascending
// chunk sequence index so rankings stay deterministic.
func sortScored(results []core.ScoredChunk) {
	slices.SortFunc(results, func(a, b core.ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return a.Chunk.Seq - b.Chunk.Seq
	})
}

// readDocument reads a document from the transaction.
// Returns nil without error when the key does not exist.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var document *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		document, unmarshalErr = index.UnmarshalDocument(val)
		return unmarshalErr
	})
	return document, err
}
