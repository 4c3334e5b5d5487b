package index

import (
	"context"
	"errors"
)

// ErrIndexUnavailable means the persisted index cannot be opened. Serving
// cannot start without it, so callers treat this as fatal.
var ErrIndexUnavailable = errors.New("vector index unavailable")

// Document is one embedded chunk as stored in the index. Records are
// written once during ingestion and only queried afterwards.
type Document struct {
	ID        string
	Text      string
	Book      int
	Chapter   string
	Source    string
	Embedding []float32
}

// Result is a similarity hit paired with its citation metadata.
type Result struct {
	Text       string
	Source     string
	Book       int
	Chapter    string
	Similarity float32
}

// Store is the vector index capability: batch upsert at ingestion time,
// top-K similarity queries at serving time. Implementations are safe for
// concurrent reads.
type Store interface {
	Add(ctx context.Context, docs []Document) error
	Query(ctx context.Context, embedding []float32, k int) ([]Result, error)
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
	Close() error
}
