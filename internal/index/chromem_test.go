package index

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *ChromemStore {
	t.Helper()
	s, err := NewChromemStore("", "test", true)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	return s
}

func TestChromemStore_QueryReturnsMostSimilarWithMetadata(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	docs := []Document{
		{ID: "a", Text: "the sorting hat", Book: 1, Chapter: "7", Source: "Harry Potter Book 1, Chapter 7", Embedding: []float32{1, 0, 0}},
		{ID: "b", Text: "the chamber opens", Book: 2, Chapter: "9", Source: "Harry Potter Book 2, Chapter 9", Embedding: []float32{0, 1, 0}},
		{ID: "c", Text: "the third task", Book: 4, Chapter: "31", Source: "Harry Potter Book 4, Chapter 31", Embedding: []float32{0, 0, 1}},
	}
	if err := s.Add(ctx, docs); err != nil {
		t.Fatalf("Add: %v", err)
	}

	results, err := s.Query(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	top := results[0]
	if top.Text != "the sorting hat" || top.Book != 1 || top.Chapter != "7" {
		t.Errorf("unexpected top result: %+v", top)
	}
	if top.Source != "Harry Potter Book 1, Chapter 7" {
		t.Errorf("unexpected source: %q", top.Source)
	}
	if top.Similarity < results[1].Similarity {
		t.Errorf("results not ordered by similarity: %v", results)
	}
}

func TestChromemStore_QueryClampsKToCount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Add(ctx, []Document{
		{ID: "a", Text: "one", Book: 1, Chapter: "1", Source: "s", Embedding: []float32{1, 0, 0}},
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	results, err := s.Query(ctx, []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestChromemStore_ResetEmptiesCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Add(ctx, []Document{
		{ID: "a", Text: "one", Book: 1, Chapter: "1", Source: "s", Embedding: []float32{1, 0, 0}},
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	n, _ := s.Count(ctx)
	if n != 0 {
		t.Errorf("expected empty collection after reset, got %d", n)
	}
}
