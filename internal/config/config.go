package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultCORSOrigins are the frontend origins allowed when CORS_ALLOWED_ORIGINS is unset.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8080",
	"http://frontend:3000",
}

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL       string
	LLMModelName     string
	LLMAPIKey        string
	LLMTemperature   float64
	LLMTopP          float64
	LLMTopK          int
	LLMRepeatPenalty float64

	EmbeddingBaseURL     string
	EmbeddingModelName   string
	EmbeddingBatchSize   int
	EmbeddingConcurrency int

	DBPath           string
	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	APIPort            string
	CORSAllowedOrigins []string
	LogLevel           slog.Level
	LogFormat          string

	// RAGTopK is the number of chunks retrieved per substantive question.
	RAGTopK int
	// RAGMaxContextLength is the character budget for assembled context.
	RAGMaxContextLength int
	// PromptsPath optionally points at a YAML file overriding prompt templates.
	PromptsPath string

	SourceRepoURL string
	SourceBranch  string
	ChunkSize     int
	ChunkOverlap  int
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or one of its parents, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:11434"),
		LLMModelName:       getEnv("LLM_MODEL", "llama3.1:8b"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		DBPath:             getEnv("DB_PATH", "./data/nigerian-laws.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "nigerian_laws"),
		APIPort:            getEnv("API_PORT", "8000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		PromptsPath:        getEnv("PROMPTS_PATH", ""),
		SourceRepoURL:      getEnv("SOURCE_REPO_URL", "https://github.com/mykeels/nigerian-laws"),
		SourceBranch:       getEnv("SOURCE_BRANCH", "master"),
		CORSAllowedOrigins: DefaultCORSOrigins,
	}

	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.CORSAllowedOrigins = splitList(origins)
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	// Vector size must match the output size of the embeddings model
	// (384 for all-MiniLM-L6-v2). Changing it requires recreating the collection.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	if cfg.QdrantVectorSize, err = positiveInt("QDRANT_VECTOR_SIZE", vectorSizeStr); err != nil {
		return nil, err
	}

	ints := []struct {
		key  string
		def  string
		dest *int
	}{
		{"LLM_TOP_K", "20", &cfg.LLMTopK},
		{"EMBEDDING_BATCH_SIZE", "32", &cfg.EmbeddingBatchSize},
		{"EMBEDDING_CONCURRENCY", "4", &cfg.EmbeddingConcurrency},
		{"RAG_TOP_K", "5", &cfg.RAGTopK},
		{"RAG_MAX_CONTEXT_LENGTH", "3500", &cfg.RAGMaxContextLength},
		{"CHUNK_SIZE", "1500", &cfg.ChunkSize},
		{"CHUNK_OVERLAP", "200", &cfg.ChunkOverlap},
	}
	for _, field := range ints {
		if *field.dest, err = positiveInt(field.key, getEnv(field.key, field.def)); err != nil {
			return nil, err
		}
	}

	floats := []struct {
		key  string
		def  string
		dest *float64
	}{
		{"LLM_TEMPERATURE", "0.6", &cfg.LLMTemperature},
		{"LLM_TOP_P", "0.8", &cfg.LLMTopP},
		{"LLM_REPEAT_PENALTY", "1.05", &cfg.LLMRepeatPenalty},
	}
	for _, field := range floats {
		v, err := strconv.ParseFloat(getEnv(field.key, field.def), 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a valid number: %w", field.key, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("%s must not be negative", field.key)
		}
		*field.dest = v
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the process logger from the configured level and format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func positiveInt(key, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return v, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	return level, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
