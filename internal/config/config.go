package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	LogLevel string

	DocsPath       string
	PersistPath    string
	CollectionName string

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	OllamaURL  string
	GenModel   string
	EmbedModel string

	EmbedBatchSize     int
	EmbedBatchesPerSec float64

	MetricsPort string
}

// Load reads configuration from the environment. Unlike a plain
// getenv-with-fallback scheme, malformed or out-of-range values are
// rejected rather than silently replaced.
func Load() (Config, error) {
	cfg := Config{
		LogLevel: env("LOG_LEVEL", "info"),

		DocsPath:       env("DOCS_PATH", "./docs"),
		PersistPath:    env("PERSIST_PATH", "./data/index"),
		CollectionName: env("COLLECTION_NAME", "rag_chat"),

		OllamaURL:  env("OLLAMA_URL", "http://localhost:11434"),
		GenModel:   env("OLLAMA_GEN_MODEL", "llama3"),
		EmbedModel: env("OLLAMA_EMBED_MODEL", "nomic-embed-text"),

		MetricsPort: env("METRICS_PORT", "9090"),
	}

	var err error
	if cfg.ChunkSize, err = envInt("CHUNK_SIZE", 500); err != nil {
		return Config{}, err
	}
	if cfg.ChunkOverlap, err = envInt("CHUNK_OVERLAP", 100); err != nil {
		return Config{}, err
	}
	if cfg.TopK, err = envInt("TOP_K", 4); err != nil {
		return Config{}, err
	}
	if cfg.EmbedBatchSize, err = envInt("EMBED_BATCH_SIZE", 16); err != nil {
		return Config{}, err
	}
	if cfg.EmbedBatchesPerSec, err = envFloat("EMBED_BATCHES_PER_SEC", 0); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config: chunk overlap must satisfy 0 <= overlap < chunk size, got overlap=%d size=%d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("config: top k must be positive, got %d", c.TopK)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("config: embed batch size must be positive, got %d", c.EmbedBatchSize)
	}
	if c.EmbedBatchesPerSec < 0 {
		return fmt.Errorf("config: embed batches per second must not be negative, got %g", c.EmbedBatchesPerSec)
	}
	if strings.TrimSpace(c.CollectionName) == "" {
		return fmt.Errorf("config: collection name is required")
	}
	if strings.ContainsAny(c.CollectionName, `/\`) {
		return fmt.Errorf("config: collection name must not contain path separators: %q", c.CollectionName)
	}
	if strings.TrimSpace(c.PersistPath) == "" {
		return fmt.Errorf("config: persist path is required")
	}
	if strings.TrimSpace(c.DocsPath) == "" {
		return fmt.Errorf("config: docs path is required")
	}
	return nil
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, v)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a number, got %q", key, v)
	}
	return f, nil
}
