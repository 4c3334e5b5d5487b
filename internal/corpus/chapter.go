package corpus

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ChapterRef identifies a chapter within a book. Headings whose numeral
// token normalizes cleanly carry a Number; anything else (Roman numerals,
// words outside the lookup table) keeps the raw heading token as Label.
type ChapterRef struct {
	Number int
	Label  string
}

func (c ChapterRef) IsNumbered() bool { return c.Label == "" }

func (c ChapterRef) String() string {
	if c.IsNumbered() {
		return strconv.Itoa(c.Number)
	}
	return c.Label
}

// MarshalJSON keeps the on-disk format compatible with the chapter file:
// an integer for numbered chapters, a string otherwise.
func (c ChapterRef) MarshalJSON() ([]byte, error) {
	if c.IsNumbered() {
		return json.Marshal(c.Number)
	}
	return json.Marshal(c.Label)
}

func (c *ChapterRef) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		c.Number = n
		c.Label = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("chapter must be an integer or a string: %w", err)
	}
	c.Number = 0
	c.Label = s
	return nil
}

// Chapter is one contiguous span of a book's cleaned text. Chapters are
// created once during ingestion and immutable afterwards.
type Chapter struct {
	Book    int        `json:"book"`
	Chapter ChapterRef `json:"chapter"`
	Text    string     `json:"text"`
}

// Chunk is the atomic retrieval unit: a bounded span of chapter text
// tagged with its citation metadata.
type Chunk struct {
	Text    string
	Book    int
	Chapter ChapterRef
	Source  string
}

// SourceLabel builds the human-readable citation for a chapter.
func SourceLabel(book int, chapter ChapterRef) string {
	return fmt.Sprintf("Harry Potter Book %d, Chapter %s", book, chapter)
}
