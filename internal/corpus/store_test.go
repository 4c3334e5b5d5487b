package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadChapters_MixedNumbering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "all_chapters.json")
	in := []Chapter{
		{Book: 1, Chapter: ChapterRef{Number: 1}, Text: "CHAPTER ONE\nThe boy who lived."},
		{Book: 1, Chapter: ChapterRef{Label: "IV"}, Text: "CHAPTER IV\nThe keeper of keys."},
	}

	if err := SaveChapters(path, in); err != nil {
		t.Fatalf("SaveChapters: %v", err)
	}

	// Numbered chapters serialize as integers, labels as strings.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if want := `"chapter": 1`; !strings.Contains(string(raw), want) {
		t.Errorf("expected %s in file, got:\n%s", want, raw)
	}
	if want := `"chapter": "IV"`; !strings.Contains(string(raw), want) {
		t.Errorf("expected %s in file, got:\n%s", want, raw)
	}

	out, err := LoadChapters(path)
	if err != nil {
		t.Fatalf("LoadChapters: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("round trip mismatch: %+v", out)
	}
}
