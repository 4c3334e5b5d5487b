package corpus

import (
	"regexp"
	"strconv"
	"strings"
)

// chapterRe matches a chapter heading followed by its numeral token:
// digits, a Roman numeral, or an uppercase word/word-pair.
var chapterRe = regexp.MustCompile(`CHAPTER (\d+|[IVX]+|[A-Z ]+)`)

var (
	multiNewlineRe = regexp.MustCompile(`\n+`)
	multiSpaceRe   = regexp.MustCompile(` +`)
)

// numberWords maps spelled-out chapter numerals one through forty.
var numberWords = map[string]int{
	"ONE": 1, "TWO": 2, "THREE": 3, "FOUR": 4, "FIVE": 5,
	"SIX": 6, "SEVEN": 7, "EIGHT": 8, "NINE": 9, "TEN": 10,
	"ELEVEN": 11, "TWELVE": 12, "THIRTEEN": 13, "FOURTEEN": 14, "FIFTEEN": 15,
	"SIXTEEN": 16, "SEVENTEEN": 17, "EIGHTEEN": 18, "NINETEEN": 19, "TWENTY": 20,
	"TWENTY ONE": 21, "TWENTY TWO": 22, "TWENTY THREE": 23, "TWENTY FOUR": 24, "TWENTY FIVE": 25,
	"TWENTY SIX": 26, "TWENTY SEVEN": 27, "TWENTY EIGHT": 28, "TWENTY NINE": 29, "THIRTY": 30,
	"THIRTY ONE": 31, "THIRTY TWO": 32, "THIRTY THREE": 33, "THIRTY FOUR": 34, "THIRTY FIVE": 35,
	"THIRTY SIX": 36, "THIRTY SEVEN": 37, "THIRTY EIGHT": 38, "THIRTY NINE": 39, "FORTY": 40,
}

// CleanText collapses repeated newlines and spaces so chapter headings
// match regardless of how the PDF extractor broke the lines.
func CleanText(text string) string {
	text = multiNewlineRe.ReplaceAllString(text, "\n")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return text
}

// ExtractChapters splits a book's cleaned text into chapter records. Each
// chapter spans from its heading to the next heading; the last one runs to
// the end of the text. A text with no headings yields no chapters, which
// callers must treat as "book unavailable", not as an error.
func ExtractChapters(text string, book int) []Chapter {
	matches := chapterRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	chapters := make([]Chapter, 0, len(matches))
	for i, m := range matches {
		start := m[0]
		end := len(text)
		if i < len(matches)-1 {
			end = matches[i+1][0]
		}
		numeral := text[m[2]:m[3]]
		chapters = append(chapters, Chapter{
			Book:    book,
			Chapter: normalizeNumeral(numeral),
			Text:    strings.TrimSpace(text[start:end]),
		})
	}
	return chapters
}

// normalizeNumeral turns a heading token into a chapter number where
// possible. Unrecognized tokens stay opaque labels rather than being
// forced to an integer.
func normalizeNumeral(token string) ChapterRef {
	trimmed := strings.TrimSpace(strings.ToUpper(token))
	if n, err := strconv.Atoi(trimmed); err == nil {
		return ChapterRef{Number: n}
	}
	if n, ok := numberWords[trimmed]; ok {
		return ChapterRef{Number: n}
	}
	return ChapterRef{Label: strings.TrimSpace(token)}
}
