package corpus

import (
	"strings"
	"unicode/utf8"
)

// separators, in break-preference order. The chunker cuts at the last
// occurrence of the highest-priority separator inside the window before
// falling back to a hard character cut.
var separators = []string{"\n\n", "\n", ".", "?", "!"}

// SplitChapters chunks every chapter independently, so no chunk ever
// crosses a chapter boundary, and tags each chunk with its citation.
func SplitChapters(chapters []Chapter, chunkSize, overlap int) []Chunk {
	var chunks []Chunk
	for _, ch := range chapters {
		for _, text := range splitText(ch.Text, chunkSize, overlap) {
			chunks = append(chunks, Chunk{
				Text:    text,
				Book:    ch.Book,
				Chapter: ch.Chapter,
				Source:  SourceLabel(ch.Book, ch.Chapter),
			})
		}
	}
	return chunks
}

// splitText greedily accumulates up to chunkSize characters, preferring to
// break at a separator, then backs up by overlap characters so consecutive
// chunks share a span. Chunks are raw substrings of the input; their union
// covers the whole text.
func splitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	if len(text) == 0 {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var parts []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			parts = append(parts, text[start:])
			break
		}
		end = breakPoint(text, start, end)
		parts = append(parts, text[start:end])

		next := alignRuneStart(text, end-overlap, start)
		if next <= start {
			// Overlap would stall the scan; give up the shared span here.
			next = end
		}
		start = next
	}
	return parts
}

// breakPoint finds the best cut position in (start, limit], scanning the
// separators in priority order. With no separator in the window it is a
// hard cut at limit, backed up so it never lands inside a rune.
func breakPoint(text string, start, limit int) int {
	window := text[start:limit]
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i > 0 {
			return start + i + len(sep)
		}
	}
	return alignRuneStart(text, limit, start+1)
}

// alignRuneStart moves pos backward to a rune boundary, not past min.
func alignRuneStart(text string, pos, min int) int {
	for pos > min && pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
