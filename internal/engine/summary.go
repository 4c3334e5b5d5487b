package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// SummaryType enumerates what kind of entity a summary targets.
type SummaryType string

const (
	SummaryChapter   SummaryType = "chapter"
	SummaryCharacter SummaryType = "character"
	SummaryEvent     SummaryType = "event"
	SummaryLocation  SummaryType = "location"
	SummarySpell     SummaryType = "spell"
	SummaryHouse     SummaryType = "house"
)

var (
	ErrUnknownSummaryType = errors.New("unknown summary type")
	ErrEmptyTarget        = errors.New("summary target must not be empty")
)

// ParseSummaryType validates a request-supplied type string.
func ParseSummaryType(s string) (SummaryType, error) {
	switch t := SummaryType(strings.ToLower(strings.TrimSpace(s))); t {
	case SummaryChapter, SummaryCharacter, SummaryEvent, SummaryLocation, SummarySpell, SummaryHouse:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSummaryType, s)
	}
}

// GenerateSummary is the single-shot path: retrieval keyed by the entity
// description, one completion, no memory read or write. Model errors come
// back in-band as a failed Result; the returned error is validation only.
func (e *Engine) GenerateSummary(ctx context.Context, summaryType SummaryType, target string, mode ResponseMode) (Result, error) {
	if _, err := ParseSummaryType(string(summaryType)); err != nil {
		return Result{}, err
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return Result{}, ErrEmptyTarget
	}

	log.Info().Str("type", string(summaryType)).Str("target", target).Msg("generating summary")

	retrievalQuery := fmt.Sprintf("%s %s Harry Potter", summaryType, target)
	passages, err := e.retriever.Retrieve(ctx, retrievalQuery, e.opts.RetrievalK)
	if err != nil {
		log.Error().Err(err).Msg("summary retrieval failed")
		return summaryFailure(err), nil
	}
	if len(passages) == 0 {
		return Result{
			Answer:  fmt.Sprintf("Sorry, I couldn't find enough information about %s.", target),
			Sources: []string{},
		}, nil
	}

	prompt := BuildSummaryPrompt(SystemPrompt(mode), string(summaryType), target, JoinPassages(passages))
	answer, err := e.model.Complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("summary generation failed")
		return summaryFailure(err), nil
	}
	return Result{Answer: answer, Sources: passageSources(passages)}, nil
}

func summaryFailure(err error) Result {
	return Result{
		Answer:  fmt.Sprintf("I encountered an error while generating the summary: %v", err),
		Sources: []string{},
		Failed:  true,
	}
}
