package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"storybook-rag/internal/config"
	"storybook-rag/internal/corpus"
	"storybook-rag/internal/embedding"
	"storybook-rag/internal/index"
)

// bookFiles maps book number to its source file in the PDF directory.
var bookFiles = map[int]string{
	1: "HP1.pdf",
	2: "HP2.pdf",
	3: "HP3.pdf",
	4: "HP4.pdf",
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	configPath := flag.String("config", "./configs/config.yaml", "Path to the config file")
	dryRun := flag.Bool("dry-run", false, "Segment and chunk only, do not embed or write the index")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if !*dryRun {
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("Invalid config")
		}
	}

	ctx := context.Background()
	if err := run(ctx, cfg, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}
}

func run(ctx context.Context, cfg *config.Config, dryRun bool) error {
	chapters, err := processBooks(cfg)
	if err != nil {
		return err
	}
	if len(chapters) == 0 {
		return fmt.Errorf("no chapters extracted from any book")
	}

	chaptersPath := filepath.Join(cfg.Corpus.ProcessedDir, cfg.Corpus.ChaptersFile)
	if err := corpus.SaveChapters(chaptersPath, chapters); err != nil {
		return err
	}
	log.Info().Int("chapters", len(chapters)).Str("path", chaptersPath).Msg("Saved chapter records")

	chunks := corpus.SplitChapters(chapters, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	log.Info().Int("chunks", len(chunks)).Msg("Created chunks")

	if dryRun {
		return nil
	}
	return buildIndex(ctx, cfg, chunks)
}

// processBooks extracts, cleans and segments every available book. A book
// whose text yields no chapter headings is skipped with a warning; the
// corpus is built from whatever segmented cleanly.
func processBooks(cfg *config.Config) ([]corpus.Chapter, error) {
	var all []corpus.Chapter
	for book := 1; book <= len(bookFiles); book++ {
		path := filepath.Join(cfg.Corpus.PDFDir, bookFiles[book])
		text, err := extractText(path)
		if err != nil {
			log.Warn().Err(err).Int("book", book).Str("path", path).Msg("Book not readable, skipping")
			continue
		}

		text = corpus.CleanText(text)
		rawPath := filepath.Join(cfg.Corpus.ProcessedDir, fmt.Sprintf("book_%d_raw.txt", book))
		if err := os.MkdirAll(cfg.Corpus.ProcessedDir, 0o755); err != nil {
			return nil, fmt.Errorf("create processed dir: %w", err)
		}
		if err := os.WriteFile(rawPath, []byte(text), 0o644); err != nil {
			return nil, fmt.Errorf("write raw text: %w", err)
		}

		chapters := corpus.ExtractChapters(text, book)
		if len(chapters) == 0 {
			log.Warn().Int("book", book).Msg("No chapter headings found, book unavailable for segmentation")
			continue
		}
		log.Info().Int("book", book).Int("chapters", len(chapters)).Msg("Segmented book")
		all = append(all, chapters...)
	}
	return all, nil
}

// extractText reads a book's full text: PDFs page by page, anything else
// as plain text. A .txt next to the expected PDF acts as a fallback.
func extractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		alt := strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
		if _, altErr := os.Stat(alt); altErr != nil {
			return "", err
		}
		path = alt
	}
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return "", err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		pageText, err := reader.Page(i).GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func buildIndex(ctx context.Context, cfg *config.Config, chunks []corpus.Chunk) error {
	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}

	store, err := openIngestStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Re-ingestion replaces the index wholesale.
	if err := store.Reset(ctx); err != nil {
		return err
	}

	docs := make([]index.Document, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := embedder.EmbedQuery(ctx, chunk.Text)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", i, err)
		}
		docs = append(docs, index.Document{
			ID:        uuid.NewString(),
			Text:      chunk.Text,
			Book:      chunk.Book,
			Chapter:   chunk.Chapter.String(),
			Source:    chunk.Source,
			Embedding: vec,
		})
	}

	log.Info().Int("documents", len(docs)).Msg("Adding documents to vector index")
	if err := store.Add(ctx, docs); err != nil {
		return err
	}
	n, _ := store.Count(ctx)
	log.Info().Int("count", n).Msg("Index build complete")
	return nil
}

func openIngestStore(ctx context.Context, cfg *config.Config) (index.Store, error) {
	switch cfg.Index.Backend {
	case "postgres":
		s, err := index.NewPostgresStore(&cfg.Index)
		if err != nil {
			return nil, err
		}
		if err := s.Init(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return index.NewChromemStore(cfg.Index.Path, cfg.Index.Collection, false)
	}
}
