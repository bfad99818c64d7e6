package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// BookIndex wraps a Bleve index with pipeline-specific operations.
//
// Thread safety: all public methods are safe for concurrent use. The
// mutex protects against index corruption during rebuild operations.
type BookIndex struct {
	index  bleve.Index
	path   string
	dims   int
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the book index.
type Options struct {
	DataPath string       // Directory for index storage
	Dims     int          // Embedding dimensionality (0 disables the vector field)
	Logger   *slog.Logger // Logger for operations (stderr if nil)
}

// mappingVersion is incremented whenever the index mapping changes.
// A version mismatch on open triggers an automatic rebuild.
const mappingVersion = "2"

// versionStamp ties the stored index to both the mapping shape and the
// vector dimensionality it was built with.
func versionStamp(dims int) string {
	return mappingVersion + ":" + strconv.Itoa(dims)
}

// NewBookIndex creates or opens the index at opts.DataPath. An existing
// index with a stale mapping version or different dims is removed and
// recreated empty; the caller is expected to re-upsert all documents.
func NewBookIndex(opts Options) (*BookIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "books.bleve")
	versionPath := filepath.Join(opts.DataPath, "books.version")
	stamp := versionStamp(opts.Dims)

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingStamp, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("book index has no version file, will rebuild",
				"new_version", stamp,
			)
			needsRebuild = true
		} else if string(existingStamp) != stamp {
			logger.Info("book index mapping changed, will rebuild",
				"old_version", string(existingStamp),
				"new_version", stamp,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		indexMapping := buildIndexMapping(opts.Dims)
		index, err = bleve.New(indexPath, indexMapping)
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(stamp), 0644); writeErr != nil {
			logger.Warn("failed to write index version file", "error", writeErr)
		}
		logger.Info("created new book index", "path", indexPath, "version", stamp)
	} else {
		logger.Info("opened existing book index", "path", indexPath)
	}

	return &BookIndex{
		index:  index,
		path:   indexPath,
		dims:   opts.Dims,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *BookIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Upsert indexes a single document, replacing any document with the
// same book_key.
func (s *BookIndex) Upsert(doc *BookDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Convert to map to ensure field names match the mapping (lowercase)
	return s.index.Index(doc.BookKey, doc.ToMap())
}

// UpsertBatch indexes documents in 500-doc chunks. This is
// significantly faster than calling Upsert in a loop, and chunking
// bounds memory during a full rebuild.
func (s *BookIndex) UpsertBatch(docs []*BookDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(docs); i += batchSize {
		end := i + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		chunk := docs[i:end]

		batch := s.index.NewBatch()
		for _, doc := range chunk {
			if err := batch.Index(doc.BookKey, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.BookKey, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// Delete removes a document from the index.
func (s *BookIndex) Delete(bookKey string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(bookKey)
}

// DeleteBatch removes multiple documents from the index.
func (s *BookIndex) DeleteBatch(bookKeys []string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, key := range bookKeys {
		batch.Delete(key)
	}

	return s.index.Batch(batch)
}

// DocumentCount returns the total number of indexed documents.
func (s *BookIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the existing index and creates a fresh empty one.
// Acquires an exclusive lock and blocks all other operations.
func (s *BookIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	indexMapping := buildIndexMapping(s.dims)
	index, err := bleve.New(s.path, indexMapping)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt book index", "path", s.path)

	return nil
}
