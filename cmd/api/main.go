package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nigerian-law-ai/internal/config"
	"nigerian-law-ai/internal/http"
	"nigerian-law-ai/internal/llm"
	"nigerian-law-ai/internal/rag"
	"nigerian-law-ai/internal/service"
	"nigerian-law-ai/internal/storage"
	"nigerian-law-ai/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(cfg.NewLogger(os.Stdout))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	chunkRepo := storage.NewChunkRepo(db)

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	defer func() {
		_ = vectorStore.Close()
	}()

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)

	// The server starts without an index; substantive questions get 503 until
	// preprocessing has run and the API is restarted.
	gateway := rag.NewIndexGateway(embedder, vectorStore, chunkRepo, cfg.QdrantCollection)
	if err := gateway.Load(ctx, vectorStore); err != nil {
		slog.Warn("Vector index unavailable", "collection", cfg.QdrantCollection, "error", err)
	}

	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, llm.Sampling{
		Temperature:   cfg.LLMTemperature,
		TopP:          cfg.LLMTopP,
		TopK:          cfg.LLMTopK,
		RepeatPenalty: cfg.LLMRepeatPenalty,
	})
	if err := llmClient.Ping(ctx); err != nil {
		slog.Warn("LLM server not reachable", "base_url", cfg.LLMBaseURL, "error", err)
	}
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)

	prompts := rag.DefaultPrompts()
	if cfg.PromptsPath != "" {
		if prompts, err = rag.LoadPrompts(cfg.PromptsPath); err != nil {
			log.Fatalf("Failed to load prompts: %v", err)
		}
		slog.Info("Prompts loaded", "path", cfg.PromptsPath)
	}

	ragEngine, err := rag.NewEngine(gateway, llmClient, prompts, rag.Options{
		TopK:             cfg.RAGTopK,
		MaxContextLength: cfg.RAGMaxContextLength,
	})
	if err != nil {
		log.Fatalf("Failed to create RAG engine: %v", err)
	}
	slog.Info("RAG engine initialized", "top_k", cfg.RAGTopK, "max_context_length", cfg.RAGMaxContextLength)

	router := http.NewRouter(&http.Deps{
		AskService:         service.NewAskService(ragEngine),
		Index:              gateway,
		Generator:          llmClient,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Shutting down API server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed: %v", err)
	}
}
