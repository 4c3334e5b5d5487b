package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"storybook-rag/internal/engine"
)

// Message mirrors one chat message on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages     []Message `json:"messages"`
	ResponseMode string    `json:"response_mode"`
	Stream       bool      `json:"stream"`
}

type ChatResponse struct {
	Message Message  `json:"message"`
	Sources []string `json:"sources"`
}

type SummarizationRequest struct {
	Type         string `json:"type"`
	Target       string `json:"target"`
	ResponseMode string `json:"response_mode"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Request validation happens before any retrieval or generation work.
	if len(req.Messages) == 0 {
		jsonError(w, "no messages provided", http.StatusBadRequest)
		return
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != "user" {
		jsonError(w, "last message must be from user", http.StatusBadRequest)
		return
	}

	mode := engine.ParseMode(req.ResponseMode)

	if req.Stream {
		s.streamChat(w, r, last.Content, mode)
		return
	}

	res, err := s.engine.GenerateResponse(r.Context(), last.Content, mode)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if res.Failed {
		log.Warn().Str("answer", res.Answer).Msg("chat turn recovered from a failure")
	}
	writeChatResponse(w, res)
}

// streamChat delivers the answer as server-sent events: the provisional
// acknowledgment, paced answer fragments, then the terminal sentinel.
func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, query string, mode engine.ResponseMode) {
	fragments, err := s.engine.StreamResponse(r.Context(), query, mode)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for fragment := range fragments {
		// Multi-line fragments need every line behind a data: prefix or
		// the event framing breaks.
		for _, line := range strings.Split(fragment, "\n") {
			fmt.Fprintf(w, "data: %s\n", line)
		}
		fmt.Fprint(w, "\n")
		flusher.Flush()
	}
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	summaryType, err := engine.ParseSummaryType(req.Type)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.engine.GenerateSummary(r.Context(), summaryType, req.Target, engine.ParseMode(req.ResponseMode))
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, engine.ErrEmptyTarget) && !errors.Is(err, engine.ErrUnknownSummaryType) {
			status = http.StatusInternalServerError
		}
		jsonError(w, err.Error(), status)
		return
	}
	writeChatResponse(w, res)
}

func (s *Server) handleClearMemory(w http.ResponseWriter, r *http.Request) {
	s.engine.ResetMemory()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Memory cleared"})
}

func writeChatResponse(w http.ResponseWriter, res engine.Result) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatResponse{
		Message: Message{Role: "assistant", Content: res.Answer},
		Sources: res.Sources,
	})
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
