package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"storybook-rag/internal/engine"
)

// Conversation is what the transport needs from the engine.
type Conversation interface {
	GenerateResponse(ctx context.Context, query string, mode engine.ResponseMode) (engine.Result, error)
	GenerateSummary(ctx context.Context, summaryType engine.SummaryType, target string, mode engine.ResponseMode) (engine.Result, error)
	StreamResponse(ctx context.Context, query string, mode engine.ResponseMode) (<-chan string, error)
	ResetMemory()
}

// Server is the thin HTTP layer over the conversation engine.
type Server struct {
	router chi.Router
	engine Conversation
}

func NewServer(conv Conversation) *Server {
	s := &Server{engine: conv}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", s.handleHealth)
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/summarize", s.handleSummarize)
	r.Get("/api/clear-memory", s.handleClearMemory)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
