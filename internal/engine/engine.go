package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrEmptyQuery is the validation failure for a blank query; it is
// resolved before any retrieval work and maps to a client error.
var ErrEmptyQuery = errors.New("query must not be empty")

// Completer is the remote text-completion capability.
type Completer interface {
	Complete(ctx context.Context, prompt string, stop ...string) (string, error)
}

// Result carries a turn's outcome as a value. A recovered failure sets
// Failed and puts the user-visible error text in Answer; no error from
// retrieval, assembly or generation ever escapes a turn.
type Result struct {
	Answer  string
	Sources []string
	Failed  bool
}

const (
	// StreamAck is the provisional fragment emitted before generation.
	StreamAck = "Thinking..."
	// StreamDone is the terminal sentinel, emitted exactly once per stream.
	StreamDone = "[DONE]"

	insufficientInfoAnswer = "Sorry, I couldn't find anything relevant to that in the first four Harry Potter books."
)

// Options tunes a conversation engine.
type Options struct {
	RetrievalK      int
	MemoryWindow    int
	StreamChunkSize int
	StreamDelay     time.Duration
}

func (o *Options) applyDefaults() {
	if o.RetrievalK <= 0 {
		o.RetrievalK = 5
	}
	if o.MemoryWindow <= 0 {
		o.MemoryWindow = 5
	}
	if o.StreamChunkSize <= 0 {
		o.StreamChunkSize = 50
	}
	if o.StreamDelay <= 0 {
		o.StreamDelay = 50 * time.Millisecond
	}
}

// Engine orchestrates one conversation: retrieval, prompt assembly,
// model call, memory commit. The retriever and model are shared
// read-only handles; the memory belongs to this engine alone. The mutex
// serializes turns so at most one is in flight per conversation.
type Engine struct {
	mu        sync.Mutex
	retriever Retriever
	model     Completer
	memory    *Memory
	opts      Options
}

func New(retriever Retriever, model Completer, opts Options) *Engine {
	opts.applyDefaults()
	return &Engine{
		retriever: retriever,
		model:     model,
		memory:    NewMemory(opts.MemoryWindow),
		opts:      opts,
	}
}

// GenerateResponse runs one full-answer chat turn. The returned error is
// only ever a validation failure; pipeline failures come back as a
// Result value so the conversation stays resumable.
func (e *Engine) GenerateResponse(ctx context.Context, query string, mode ResponseMode) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, ErrEmptyQuery
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runTurn(ctx, query, mode), nil
}

// runTurn executes retrieve → assemble → generate → commit under the
// turn lock. Panics anywhere in the pipeline are recovered into a failed
// result so a broken turn cannot corrupt memory or abort siblings.
func (e *Engine) runTurn(ctx context.Context, query string, mode ResponseMode) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("panic in chat turn")
			res = failedResult(fmt.Errorf("internal error: %v", r))
		}
	}()

	log.Info().Str("mode", string(mode)).Int("query_chars", len(query)).Msg("generating response")

	passages, err := e.retriever.Retrieve(ctx, query, e.opts.RetrievalK)
	if err != nil {
		log.Error().Err(err).Msg("retrieval failed")
		return failedResult(err)
	}
	if len(passages) == 0 {
		e.memory.Append(Turn{Query: query, Answer: insufficientInfoAnswer})
		return Result{Answer: insufficientInfoAnswer, Sources: []string{}}
	}

	prompt := BuildChatPrompt(
		SystemPrompt(mode),
		JoinPassages(passages),
		FormatHistory(e.memory.Recent()),
		query,
	)

	answer, err := e.model.Complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("generation failed")
		return failedResult(err)
	}

	e.memory.Append(Turn{Query: query, Answer: answer})
	return Result{Answer: answer, Sources: passageSources(passages)}
}

// StreamResponse runs the same pipeline but delivers the answer as a
// sequence of fragments: a provisional acknowledgment, the materialized
// answer re-sliced into fixed-size pieces with a pacing delay, then the
// terminal sentinel. Generation is not incremental; the pacing only
// produces a perceptible streaming effect. A failed turn yields a single
// error fragment before the sentinel.
func (e *Engine) StreamResponse(ctx context.Context, query string, mode ResponseMode) (<-chan string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	out := make(chan string)
	go func() {
		defer close(out)
		send := func(s string) bool {
			select {
			case out <- s:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send(StreamAck) {
			return
		}
		if !pace(ctx, e.opts.StreamDelay) {
			return
		}

		e.mu.Lock()
		res := e.runTurn(ctx, query, mode)
		e.mu.Unlock()

		if res.Failed {
			if send(res.Answer) {
				send(StreamDone)
			}
			return
		}

		// Fragments are sized in runes so a multi-byte character never
		// straddles a fragment boundary.
		runes := []rune(res.Answer)
		for i := 0; i < len(runes); i += e.opts.StreamChunkSize {
			end := i + e.opts.StreamChunkSize
			if end > len(runes) {
				end = len(runes)
			}
			if !send(string(runes[i:end])) {
				return
			}
			if !pace(ctx, e.opts.StreamDelay) {
				return
			}
		}
		send(StreamDone)
	}()
	return out, nil
}

// ResetMemory clears the conversational window immediately and totally.
func (e *Engine) ResetMemory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.memory.Clear()
	log.Info().Msg("conversation memory cleared")
}

// pace sleeps without holding any shared resource; cancellation cuts the
// delay short.
func pace(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func failedResult(err error) Result {
	return Result{
		Answer:  fmt.Sprintf("I encountered an error while processing your question: %v", err),
		Sources: []string{},
		Failed:  true,
	}
}

func passageSources(passages []Passage) []string {
	sources := make([]string, len(passages))
	for i, p := range passages {
		sources[i] = p.Source
	}
	return sources
}
