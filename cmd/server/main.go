package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"storybook-rag/internal/api"
	"storybook-rag/internal/config"
	"storybook-rag/internal/embedding"
	"storybook-rag/internal/engine"
	"storybook-rag/internal/index"
	"storybook-rag/internal/llm"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	configPath := flag.String("config", "./configs/config.yaml", "Path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The index is the one hard startup dependency: without it no
	// retrieval is possible, so a missing index is fatal, not retried.
	store, err := openServingStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector index")
	}
	defer store.Close()
	n, _ := store.Count(ctx)
	log.Info().Int("documents", n).Str("backend", cfg.Index.Backend).Msg("Vector index loaded")

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	model, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing completion client")
	}

	eng := engine.New(
		engine.NewIndexRetriever(embedder, store),
		model,
		engine.Options{
			RetrievalK:      cfg.RAG.RetrievalK,
			MemoryWindow:    cfg.RAG.MemoryWindow,
			StreamChunkSize: cfg.RAG.StreamChunkSize,
			StreamDelay:     time.Duration(cfg.RAG.StreamDelayMs) * time.Millisecond,
		},
	)

	srv := api.NewServer(eng)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown error")
		}
		cancel()
	}()

	log.Info().Str("port", cfg.Server.Port).Msg("Storybook server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func openServingStore(ctx context.Context, cfg *config.Config) (index.Store, error) {
	switch cfg.Index.Backend {
	case "postgres":
		return index.OpenPostgresStore(ctx, &cfg.Index)
	default:
		return index.OpenChromemStore(cfg.Index.Path, cfg.Index.Collection)
	}
}
