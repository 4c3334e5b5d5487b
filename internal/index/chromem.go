package index

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
)

// ChromemStore is the default index backend: an embedded chromem-go
// database persisted under a directory.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
}

const chromemCompress = false

// NewChromemStore opens (or creates) the database for ingestion. An
// in-memory instance is used by tests.
func NewChromemStore(path, collection string, inMemory bool) (*ChromemStore, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, chromemCompress)
		if err != nil {
			return nil, fmt.Errorf("open chromem db: %w", err)
		}
	}
	c, err := db.GetOrCreateCollection(collection, nil, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", collection, err)
	}
	return &ChromemStore{db: db, collection: c, name: collection}, nil
}

// OpenChromemStore opens an existing populated index for serving. A
// missing or empty collection is ErrIndexUnavailable: retrieval is
// impossible, so startup must fail fast rather than limp along.
func OpenChromemStore(path, collection string) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(path, chromemCompress)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	c := db.GetCollection(collection, noEmbedding)
	if c == nil || c.Count() == 0 {
		return nil, fmt.Errorf("%w: collection %s missing or empty at %s", ErrIndexUnavailable, collection, path)
	}
	return &ChromemStore{db: db, collection: c, name: collection}, nil
}

// noEmbedding guards against any path that would need server-side
// embedding; every document and query carries a precomputed vector.
func noEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embeddings must be provided, not computed by the store")
}

func (s *ChromemStore) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	out := make([]chromem.Document, len(docs))
	for i, d := range docs {
		out[i] = chromem.Document{
			ID:        d.ID,
			Content:   d.Text,
			Embedding: d.Embedding,
			Metadata: map[string]string{
				"book":    strconv.Itoa(d.Book),
				"chapter": d.Chapter,
				"source":  d.Source,
			},
		}
	}
	if err := s.collection.AddDocuments(ctx, out, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

func (s *ChromemStore) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	// chromem rejects queries asking for more results than stored docs.
	if n := s.collection.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}
	hits, err := s.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	results := make([]Result, len(hits))
	for i, h := range hits {
		book, _ := strconv.Atoi(h.Metadata["book"])
		results[i] = Result{
			Text:       h.Content,
			Source:     h.Metadata["source"],
			Book:       book,
			Chapter:    h.Metadata["chapter"],
			Similarity: h.Similarity,
		}
	}
	return results, nil
}

func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

func (s *ChromemStore) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	c, err := s.db.GetOrCreateCollection(s.name, nil, noEmbedding)
	if err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	s.collection = c
	return nil
}

func (s *ChromemStore) Close() error { return nil }
