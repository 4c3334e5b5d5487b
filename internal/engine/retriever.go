package engine

import (
	"context"
	"fmt"

	"storybook-rag/internal/index"
)

// Passage is a retrieved chunk paired with its citation.
type Passage struct {
	Text   string
	Source string
}

// Retriever finds the passages most similar to a free-text query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Passage, error)
}

// Embedder turns text into a fixed-length vector. Satisfied by
// langchaingo's EmbedderImpl.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// IndexRetriever embeds the query and runs a top-K similarity search
// against the shared read-only index.
type IndexRetriever struct {
	embedder Embedder
	store    index.Store
}

func NewIndexRetriever(embedder Embedder, store index.Store) *IndexRetriever {
	return &IndexRetriever{embedder: embedder, store: store}
}

func (r *IndexRetriever) Retrieve(ctx context.Context, query string, k int) ([]Passage, error) {
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := r.store.Query(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	passages := make([]Passage, len(hits))
	for i, h := range hits {
		passages[i] = Passage{Text: h.Text, Source: h.Source}
	}
	return passages, nil
}
