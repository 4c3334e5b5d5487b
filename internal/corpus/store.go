package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveChapters writes the corpus-wide ordered chapter sequence produced by
// ingestion. The file is the durable artifact the chunker and any re-index
// run load; it is never rewritten at serving time.
func SaveChapters(path string, chapters []Chapter) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(chapters, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chapters: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write chapters file: %w", err)
	}
	return nil
}

func LoadChapters(path string) ([]Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chapters file: %w", err)
	}
	var chapters []Chapter
	if err := json.Unmarshal(data, &chapters); err != nil {
		return nil, fmt.Errorf("parse chapters file: %w", err)
	}
	return chapters, nil
}
