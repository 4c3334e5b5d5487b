package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
embedding:
  model: nomic-embed-text
llm:
  model: mistral-small
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RAG.ChunkSize != 512 || cfg.RAG.ChunkOverlap != 128 {
		t.Errorf("unexpected chunking defaults: %+v", cfg.RAG)
	}
	if cfg.RAG.RetrievalK != 5 || cfg.RAG.MemoryWindow != 5 {
		t.Errorf("unexpected retrieval defaults: %+v", cfg.RAG)
	}
	if cfg.Index.Backend != "chromem" {
		t.Errorf("expected chromem default backend, got %q", cfg.Index.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadConfig_OverlapMustBeSmallerThanSize(t *testing.T) {
	path := writeConfig(t, `
rag:
  chunk_size: 100
  chunk_overlap: 200
embedding:
  model: m
llm:
  model: m
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RAG.ChunkOverlap >= cfg.RAG.ChunkSize {
		t.Errorf("overlap %d not clamped below chunk size %d", cfg.RAG.ChunkOverlap, cfg.RAG.ChunkSize)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"postgres without dsn", "index:\n  backend: postgres\nembedding:\n  model: m\nllm:\n  model: m\n"},
		{"unknown backend", "index:\n  backend: pinecone\nembedding:\n  model: m\nllm:\n  model: m\n"},
		{"missing embedding model", "llm:\n  model: m\n"},
		{"missing llm model", "embedding:\n  model: m\n"},
	}
	for _, tc := range cases {
		cfg, err := LoadConfig(writeConfig(t, tc.body))
		if err != nil {
			t.Fatalf("%s: LoadConfig: %v", tc.name, err)
		}
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

func TestLLMConfig_APIKeyPrefersEnv(t *testing.T) {
	t.Setenv("STORYBOOK_TEST_KEY", "from-env")
	c := LLMConfig{Key: "from-file", KeyEnv: "STORYBOOK_TEST_KEY"}
	if got := c.APIKey(); got != "from-env" {
		t.Errorf("expected env key, got %q", got)
	}
	c.KeyEnv = "STORYBOOK_TEST_KEY_UNSET"
	if got := c.APIKey(); got != "from-file" {
		t.Errorf("expected file key fallback, got %q", got)
	}
}
