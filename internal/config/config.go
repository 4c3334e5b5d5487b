package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig `yaml:"server"`
	Corpus    CorpusConfig `yaml:"corpus"`
	RAG       RAGConfig    `yaml:"rag"`
	Index     IndexConfig  `yaml:"index"`
	Embedding LLMConfig    `yaml:"embedding"`
	LLM       LLMConfig    `yaml:"llm"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type CorpusConfig struct {
	PDFDir       string `yaml:"pdf_dir"`
	ProcessedDir string `yaml:"processed_dir"`
	ChaptersFile string `yaml:"chapters_file"`
}

type RAGConfig struct {
	ChunkSize       int `yaml:"chunk_size"`
	ChunkOverlap    int `yaml:"chunk_overlap"`
	RetrievalK      int `yaml:"retrieval_k"`
	MemoryWindow    int `yaml:"memory_window"`
	StreamChunkSize int `yaml:"stream_chunk_size"`
	StreamDelayMs   int `yaml:"stream_delay_ms"`
}

type IndexConfig struct {
	// Backend selects the vector store: "chromem" or "postgres".
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	DSN        string `yaml:"dsn"`
	Password   string `yaml:"password"`
	Debug      bool   `yaml:"debug"`
	VectorSize int    `yaml:"vector_size"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"base_url"`
	Key         string  `yaml:"key"`
	KeyEnv      string  `yaml:"key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// APIKey resolves the key, preferring the environment variable named by
// key_env so secrets stay out of the config file.
func (c *LLMConfig) APIKey() string {
	if c.KeyEnv != "" {
		if v := os.Getenv(c.KeyEnv); v != "" {
			return v
		}
	}
	return c.Key
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}
	if c.Corpus.PDFDir == "" {
		c.Corpus.PDFDir = "./data/pdfs"
	}
	if c.Corpus.ProcessedDir == "" {
		c.Corpus.ProcessedDir = "./data/processed"
	}
	if c.Corpus.ChaptersFile == "" {
		c.Corpus.ChaptersFile = "all_chapters.json"
	}
	if c.RAG.ChunkSize <= 0 {
		c.RAG.ChunkSize = 512
	}
	if c.RAG.ChunkOverlap <= 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		c.RAG.ChunkOverlap = c.RAG.ChunkSize / 4
	}
	if c.RAG.RetrievalK <= 0 {
		c.RAG.RetrievalK = 5
	}
	if c.RAG.MemoryWindow <= 0 {
		c.RAG.MemoryWindow = 5
	}
	if c.RAG.StreamChunkSize <= 0 {
		c.RAG.StreamChunkSize = 50
	}
	if c.RAG.StreamDelayMs <= 0 {
		c.RAG.StreamDelayMs = 50
	}
	if c.Index.Backend == "" {
		c.Index.Backend = "chromem"
	}
	if c.Index.Path == "" {
		c.Index.Path = "./data/processed/chromem_db"
	}
	if c.Index.Collection == "" {
		c.Index.Collection = "storybook"
	}
	if c.Index.VectorSize <= 0 {
		c.Index.VectorSize = 768
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 512
	}
}

func (c *Config) Validate() error {
	switch c.Index.Backend {
	case "chromem":
	case "postgres":
		if c.Index.DSN == "" {
			return fmt.Errorf("index.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown index backend: %s", c.Index.Backend)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	return nil
}
