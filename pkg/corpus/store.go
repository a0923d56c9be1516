// Package corpus stores documents in a bolt database and keeps a BM25 index
// of their stems in memory.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/boltdb/bolt"
	"github.com/mnohosten/laura-stem/pkg/compression"
	"github.com/mnohosten/laura-stem/pkg/text"
	"github.com/mnohosten/laura-stem/pkg/vector"
	"github.com/segmentio/ksuid"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrClosed    = errors.New("corpus is closed")
	ErrEmptyText = errors.New("document text is empty")
)

var documentsBucket = []byte("documents")

// Document is a stored text.
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Options configures a Store.
type Options struct {
	Compression *compression.Config
	Analyzer    *text.Analyzer
	Timeout     time.Duration // bolt file lock timeout
	Logger      *slog.Logger
}

// DefaultOptions returns zstd compression, the default analyzer and a one
// second lock timeout.
func DefaultOptions() *Options {
	return &Options{
		Compression: compression.DefaultConfig(),
		Analyzer:    text.NewAnalyzer(),
		Timeout:     time.Second,
	}
}

// Store is a persistent document corpus.
type Store struct {
	mu         sync.RWMutex
	db         *bolt.DB
	compressor *compression.Compressor
	index      *InvertedIndex
	analyzer   *text.Analyzer
	logger     *slog.Logger
	closed     bool
}

// Open opens or creates the corpus at path and rebuilds the search index from
// the stored documents.
func Open(path string, opts *Options) (*Store, error) {
	defaults := DefaultOptions()
	if opts == nil {
		opts = defaults
	}
	if opts.Compression == nil {
		opts.Compression = defaults.Compression
	}
	if opts.Analyzer == nil {
		opts.Analyzer = defaults.Analyzer
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	compressor, err := compression.NewCompressor(opts.Compression)
	if err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: opts.Timeout})
	if err != nil {
		compressor.Close()
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}

	s := &Store{
		db:         db,
		compressor: compressor,
		index:      NewInvertedIndex(opts.Analyzer),
		analyzer:   opts.Analyzer,
		logger:     logger,
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(documentsBucket)
		return err
	})
	if err == nil {
		err = s.rebuild()
	}
	if err != nil {
		db.Close()
		compressor.Close()
		return nil, err
	}

	logger.Info("corpus opened", "path", path, "documents", s.index.Stats().Documents,
		"compression", opts.Compression.Algorithm.String())
	return s, nil
}

func (s *Store) rebuild() error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).ForEach(func(k, v []byte) error {
			doc, err := s.decode(v)
			if err != nil {
				return fmt.Errorf("failed to load document %s: %w", k, err)
			}
			s.index.Index(doc.ID, doc.Text)
			return nil
		})
	})
}

func (s *Store) encode(doc *Document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return s.compressor.Encode(raw)
}

func (s *Store) decode(payload []byte) (*Document, error) {
	raw, err := s.compressor.Decode(payload)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// Add stores text under id, replacing an existing document. An empty id is
// replaced by a new KSUID.
func (s *Store) Add(id, body string) (*Document, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyText
	}
	if id == "" {
		id = ksuid.New().String()
	}

	// bolt and the index are updated together under the write lock
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	doc := &Document{ID: id, Text: body, CreatedAt: time.Now().UTC()}
	payload, err := s.encode(doc)
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Put([]byte(id), payload)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	s.index.Index(id, body)
	s.logger.Debug("document stored", "id", id, "bytes", len(body), "stored", len(payload))
	return doc, nil
}

// Get returns the document stored under id.
func (s *Store) Get(id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var doc *Document
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(documentsBucket).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		var err error
		doc, err = s.decode(v)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the document stored under id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(documentsBucket)
		if b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return err
	}

	s.index.Remove(id)
	return nil
}

// List returns every document in id order.
func (s *Store) List() ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var docs []*Document
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).ForEach(func(_, v []byte) error {
			doc, err := s.decode(v)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Count returns the number of stored documents.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(documentsBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// SearchResult is a hit joined with its document.
type SearchResult struct {
	Hit
	Document *Document `json:"document"`
}

// Search ranks stored documents against query by BM25.
func (s *Store) Search(query string, limit int) ([]SearchResult, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	hits := s.index.Search(query, limit)
	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		doc, err := s.Get(hit.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{Hit: hit, Document: doc})
	}
	return results, nil
}

// Vectors is a vectorized corpus; row i belongs to IDs[i].
type Vectors struct {
	IDs []string `json:"ids"`
	*vector.Result
}

// Vectorize runs the vectorizer for mode over every stored document in id
// order. Documents are tokenized into stems with the store's analyzer.
func (s *Store) Vectorize(mode vector.Mode) (*Vectors, error) {
	docs, err := s.List()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(docs))
	texts := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		texts[i] = doc.Text
	}

	result, err := vector.Vectorize(texts, mode, s.analyzer.Terms)
	if err != nil {
		return nil, err
	}
	return &Vectors{IDs: ids, Result: result}, nil
}

// IndexStats returns statistics about the search index.
func (s *Store) IndexStats() IndexStats {
	return s.index.Stats()
}

// Close flushes and closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.compressor.Close()
	return s.db.Close()
}
