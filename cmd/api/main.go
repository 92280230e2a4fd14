package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goodwish-chatbot/config"
	_ "goodwish-chatbot/docs" // Swagger docs
	chatHTTP "goodwish-chatbot/internal/chat/delivery/http"
	chatUsecase "goodwish-chatbot/internal/chat/usecase"
	"goodwish-chatbot/internal/conversation"
	docRepo "goodwish-chatbot/internal/document/repository/qdrant"
	docUsecase "goodwish-chatbot/internal/document/usecase"
	"goodwish-chatbot/internal/httpserver"
	"goodwish-chatbot/internal/middleware"
	"goodwish-chatbot/pkg/llmprovider"
	"goodwish-chatbot/pkg/log"
	pkgQdrant "goodwish-chatbot/pkg/qdrant"
	"goodwish-chatbot/pkg/voyage"
)

// @title       WishChat API
// @description Retrieval-augmented chatbot for Goodwish Engineering with session history, response caching and voice input.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting WishChat API...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. LLM providers
	providers, err := llmprovider.InitializeProviders(ctx, &cfg.LLM, logger)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize LLM providers: %v", err)
	}
	llm := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      parseDuration(cfg.LLM.RetryDelay, time.Second),
		MaxTotalTimeout: parseDuration(cfg.LLM.MaxTotalTimeout, 60*time.Second),
	}, logger)

	// 4. Retrieval: Voyage embeddings + Qdrant
	embedder, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize Voyage API: %v", err)
	}
	embedder.WithModel(cfg.Voyage.Model).WithBaseURL(cfg.Voyage.BaseURL)

	qdrantClient := pkgQdrant.NewClient(cfg.Qdrant.URL).WithAPIKey(cfg.Qdrant.APIKey)
	vectorRepo := docRepo.New(qdrantClient, embedder, docRepo.Config{
		Collection: cfg.Qdrant.CollectionName,
		VectorSize: cfg.Qdrant.VectorSize,
	}, logger)
	retriever := docUsecase.New(logger, vectorRepo, docUsecase.Config{
		ChunkSize:    cfg.Ingest.ChunkSize,
		ChunkOverlap: cfg.Ingest.ChunkOverlap,
	})

	checks := map[string]httpserver.ReadinessCheck{
		"qdrant": func(ctx context.Context) error {
			_, err := qdrantClient.CollectionExists(ctx, cfg.Qdrant.CollectionName)
			return err
		},
	}

	// 5. Session transport (history mirror)
	transport, closeTransport, err := newSessionTransport(ctx, cfg, logger, checks)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize session backend: %v", err)
	}
	defer closeTransport()

	// 6. Conversation state
	conv, err := conversation.New(logger, conversation.Config{
		MaxTurns:      cfg.Conversation.MaxTurns,
		HistoryTTL:    cfg.Conversation.HistoryTTL,
		CacheCapacity: cfg.Conversation.CacheCapacity,
		CacheTTL:      cfg.Conversation.CacheTTL,
		Updater: conversation.UpdaterConfig{
			Workers:    cfg.Conversation.UpdaterWorkers,
			QueueSize:  cfg.Conversation.UpdaterQueueSize,
			JobTimeout: cfg.Conversation.UpdaterJobTimeout,
		},
		Transport: transport,
	})
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize conversation state: %v", err)
	}

	// 7. Speech (optional)
	transcriber := newTranscriber(ctx, cfg.Speech, logger)

	// 8. Chat usecase
	chatUC := chatUsecase.New(logger, conv, retriever, llm, transcriber, chatUsecase.Config{
		RetrievalK:    cfg.Retrieval.TopK,
		SummaryTurns:  cfg.Retrieval.SummaryTurns,
		Temperature:   cfg.Retrieval.Temperature,
		MaxTokens:     cfg.Retrieval.MaxTokens,
		AnswerTimeout: cfg.Retrieval.AnswerTimeout,
	})

	mw := middleware.New(logger, middleware.SessionConfig{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		HeaderName: cfg.Session.HeaderName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
		Domain:     cfg.Session.Domain,
	}, middleware.RateLimitConfig{
		Enabled:           cfg.RateLimit.Enabled,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		MaxSessions:       cfg.RateLimit.MaxSessions,
		IdleTTL:           cfg.RateLimit.IdleTTL,
	})

	// 9. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		ShutdownTimeout: cfg.HTTPServer.ShutdownTimeout,
		ChatUseCase:     chatUC,
		ChatConfig: chatHTTP.Config{
			MaxImageBytes: cfg.HTTPServer.MaxImageBytes,
			MaxAudioBytes: cfg.HTTPServer.MaxAudioBytes,
		},
		Middleware:      mw,
		ReadinessChecks: checks,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
	}

	// Drain pending history writes before the transport closes.
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := conv.Close(drainCtx); err != nil {
		logger.Warnf(drainCtx, "History updater did not drain: %v", err)
	}

	logger.Info(ctx, "Server stopped gracefully")
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
