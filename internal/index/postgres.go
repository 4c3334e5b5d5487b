package index

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"storybook-rag/internal/config"
)

type pgChunk struct {
	bun.BaseModel `bun:"table:storybook_chunks,alias:c"`
	ID            string  `bun:"id,pk"`
	Content       string  `bun:"content,notnull"`
	Embedding     string  `bun:"embedding,notnull"`
	Book          int     `bun:"book,notnull"`
	Chapter       string  `bun:"chapter,notnull"`
	Source        string  `bun:"source,notnull"`
	Similarity    float32 `bun:"similarity,scanonly"`
}

// PostgresStore is the pgvector-backed index backend, for deployments
// that already run Postgres instead of shipping the embedded index.
type PostgresStore struct {
	db         *bun.DB
	vectorSize int
}

func NewPostgresStore(cfg *config.IndexConfig) (*PostgresStore, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithPassword(cfg.Password),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &PostgresStore{db: db, vectorSize: cfg.VectorSize}, nil
}

// OpenPostgresStore connects for serving and fails fast when the chunk
// table is missing or empty.
func OpenPostgresStore(ctx context.Context, cfg *config.IndexConfig) (*PostgresStore, error) {
	s, err := NewPostgresStore(cfg)
	if err != nil {
		return nil, err
	}
	n, err := s.Count(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	if n == 0 {
		s.Close()
		return nil, fmt.Errorf("%w: storybook_chunks is empty", ErrIndexUnavailable)
	}
	return s, nil
}

func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, chunkTableDDL(s.vectorSize)); err != nil {
		return fmt.Errorf("create chunk table: %w", err)
	}
	return nil
}

// chunkTableDDL renders the chunk table with the configured embedding
// dimensionality; pgvector rejects vectors of any other length.
func chunkTableDDL(vectorSize int) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS storybook_chunks (
	id text PRIMARY KEY,
	content text NOT NULL,
	embedding vector(%d) NOT NULL,
	book integer NOT NULL,
	chapter text NOT NULL,
	source text NOT NULL
)`, vectorSize)
}

func (s *PostgresStore) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	rows := make([]pgChunk, len(docs))
	for i, d := range docs {
		rows[i] = pgChunk{
			ID:        d.ID,
			Content:   d.Text,
			Embedding: vectorLiteral(d.Embedding),
			Book:      d.Book,
			Chapter:   d.Chapter,
			Source:    d.Source,
		}
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	lit := vectorLiteral(embedding)
	var rows []pgChunk
	err := s.db.NewSelect().
		Model(&rows).
		ColumnExpr("c.id, c.content, c.book, c.chapter, c.source").
		ColumnExpr("1 - (c.embedding <=> ?::vector) AS similarity", lit).
		// Secondary order on id keeps equal-similarity results stable.
		OrderExpr("c.embedding <=> ?::vector, c.id", lit).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	results := make([]Result, len(rows))
	for i, r := range rows {
		results[i] = Result{
			Text:       r.Content,
			Source:     r.Source,
			Book:       r.Book,
			Chapter:    r.Chapter,
			Similarity: r.Similarity,
		}
	}
	return results, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	return s.db.NewSelect().Model((*pgChunk)(nil)).Count(ctx)
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.db.NewDropTable().Model((*pgChunk)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("drop chunk table: %w", err)
	}
	return s.Init(ctx)
}

func (s *PostgresStore) Close() error { return s.db.Close() }

// vectorLiteral renders a pgvector input literal like [0.1,0.2].
func vectorLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
