package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerateSummary_PromptCarriesTargetAndPassages(t *testing.T) {
	retr := &fakeRetriever{passages: somePassages()}
	model := &fakeModel{answer: "Dobby is a free elf."}
	e := New(retr, model, testOptions())

	res, err := e.GenerateSummary(context.Background(), SummaryCharacter, "Dobby", ModeStructured)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Failed {
		t.Fatalf("expected success, got %q", res.Answer)
	}
	if model.calls != 1 {
		t.Fatalf("expected exactly one completion call, got %d", model.calls)
	}
	if !strings.Contains(model.lastPrompt, "'Dobby'") {
		t.Errorf("prompt missing the literal target")
	}
	if !strings.Contains(model.lastPrompt, JoinPassages(somePassages())) {
		t.Errorf("prompt missing the joined retrieved passages")
	}
	if retr.lastQuery != "character Dobby Harry Potter" {
		t.Errorf("unexpected retrieval query: %q", retr.lastQuery)
	}
	if len(res.Sources) != 2 {
		t.Errorf("expected sources from retrieval, got %v", res.Sources)
	}
}

func TestGenerateSummary_NoHitsSkipsModel(t *testing.T) {
	retr := &fakeRetriever{passages: nil}
	model := &fakeModel{answer: "should not run"}
	e := New(retr, model, testOptions())

	res, err := e.GenerateSummary(context.Background(), SummaryHouse, "Hufflepuff", ModeStructured)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.calls != 0 {
		t.Errorf("model must not be called with no retrieved chunks")
	}
	if !strings.Contains(res.Answer, "couldn't find enough information about Hufflepuff") {
		t.Errorf("expected the fixed not-enough-information answer, got %q", res.Answer)
	}
	if len(res.Sources) != 0 {
		t.Errorf("expected empty sources, got %v", res.Sources)
	}
}

func TestGenerateSummary_ModelErrorIsInBand(t *testing.T) {
	retr := &fakeRetriever{passages: somePassages()}
	e := New(retr, &fakeModel{err: errors.New("rate limited")}, testOptions())

	res, err := e.GenerateSummary(context.Background(), SummarySpell, "Expelliarmus", ModeFreeform)
	if err != nil {
		t.Fatalf("model errors must be in-band, got %v", err)
	}
	if !res.Failed || !strings.Contains(res.Answer, "rate limited") {
		t.Errorf("expected descriptive in-band failure, got %+v", res)
	}
	if len(res.Sources) != 0 {
		t.Errorf("expected empty sources on failure, got %v", res.Sources)
	}
}

func TestGenerateSummary_DoesNotTouchMemory(t *testing.T) {
	retr := &fakeRetriever{passages: somePassages()}
	e := New(retr, &fakeModel{answer: "summary"}, testOptions())

	if _, err := e.GenerateSummary(context.Background(), SummaryEvent, "Triwizard Tournament", ModeStructured); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(e.memory.Recent()) != 0 {
		t.Errorf("summaries must not write conversational memory")
	}
}

func TestGenerateSummary_Validation(t *testing.T) {
	e := New(&fakeRetriever{}, &fakeModel{}, testOptions())

	if _, err := e.GenerateSummary(context.Background(), "film", "Dobby", ModeFreeform); !errors.Is(err, ErrUnknownSummaryType) {
		t.Errorf("expected ErrUnknownSummaryType, got %v", err)
	}
	if _, err := e.GenerateSummary(context.Background(), SummaryCharacter, "  ", ModeFreeform); !errors.Is(err, ErrEmptyTarget) {
		t.Errorf("expected ErrEmptyTarget, got %v", err)
	}
}

func TestParseSummaryType(t *testing.T) {
	for _, s := range []string{"chapter", "character", "event", "location", "spell", "house"} {
		if _, err := ParseSummaryType(s); err != nil {
			t.Errorf("%q should parse, got %v", s, err)
		}
	}
	if got, err := ParseSummaryType(" Character "); err != nil || got != SummaryCharacter {
		t.Errorf("parsing should normalize case and spacing, got %v %v", got, err)
	}
	if _, err := ParseSummaryType("movie"); err == nil {
		t.Errorf("expected an error for an unknown type")
	}
}
