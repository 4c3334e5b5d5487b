package corpus

import (
	"strings"
	"testing"
)

func TestExtractChapters_TwoChapters(t *testing.T) {
	text := "CHAPTER ONE\nA\nCHAPTER TWO\nB"
	chapters := ExtractChapters(text, 1)

	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	if chapters[0].Book != 1 || chapters[0].Chapter.Number != 1 || chapters[0].Text != "CHAPTER ONE\nA" {
		t.Errorf("chapter 0 mismatch: %+v", chapters[0])
	}
	if chapters[1].Book != 1 || chapters[1].Chapter.Number != 2 || chapters[1].Text != "CHAPTER TWO\nB" {
		t.Errorf("chapter 1 mismatch: %+v", chapters[1])
	}
}

func TestExtractChapters_SpansAreContiguous(t *testing.T) {
	text := "CHAPTER 1\nfirst part.\nCHAPTER 2\nsecond part.\nCHAPTER 3\nthird part to end"
	chapters := ExtractChapters(text, 2)

	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}

	// Each span starts where its heading starts; the next span starts at
	// the next heading; the final span runs to end of text.
	pos := 0
	for i, ch := range chapters {
		idx := strings.Index(text[pos:], ch.Text)
		if idx < 0 {
			t.Fatalf("chapter %d text not found in source from offset %d", i, pos)
		}
		pos += idx + len(ch.Text)
	}
	if !strings.HasSuffix(text, chapters[len(chapters)-1].Text) {
		t.Errorf("last chapter does not extend to end of text")
	}
}

func TestExtractChapters_NumeralNormalization(t *testing.T) {
	tests := []struct {
		heading    string
		wantNumber int
		wantLabel  string
	}{
		{"CHAPTER 7", 7, ""},
		{"CHAPTER ONE", 1, ""},
		{"CHAPTER TWENTY THREE", 23, ""},
		{"CHAPTER FORTY", 40, ""},
		{"CHAPTER IV", 0, "IV"},
		{"CHAPTER THE WORST BIRTHDAY", 0, "THE WORST BIRTHDAY"},
	}

	for _, tt := range tests {
		chapters := ExtractChapters(tt.heading+"\nsome body text", 1)
		if len(chapters) != 1 {
			t.Fatalf("%q: expected 1 chapter, got %d", tt.heading, len(chapters))
		}
		ref := chapters[0].Chapter
		if tt.wantLabel == "" {
			if !ref.IsNumbered() || ref.Number != tt.wantNumber {
				t.Errorf("%q: expected number %d, got %+v", tt.heading, tt.wantNumber, ref)
			}
		} else {
			if ref.IsNumbered() || ref.Label != tt.wantLabel {
				t.Errorf("%q: expected label %q, got %+v", tt.heading, tt.wantLabel, ref)
			}
		}
	}
}

func TestExtractChapters_NoHeadings(t *testing.T) {
	chapters := ExtractChapters("just some text with no headings at all", 3)
	if len(chapters) != 0 {
		t.Errorf("expected 0 chapters, got %d", len(chapters))
	}
}

func TestCleanText(t *testing.T) {
	in := "line one\n\n\nline   two\n\nend"
	want := "line one\nline two\nend"
	if got := CleanText(in); got != want {
		t.Errorf("CleanText: got %q, want %q", got, want)
	}
}

func TestSourceLabel(t *testing.T) {
	if got := SourceLabel(2, ChapterRef{Number: 7}); got != "Harry Potter Book 2, Chapter 7" {
		t.Errorf("numbered label: got %q", got)
	}
	if got := SourceLabel(1, ChapterRef{Label: "IV"}); got != "Harry Potter Book 1, Chapter IV" {
		t.Errorf("raw label: got %q", got)
	}
}
