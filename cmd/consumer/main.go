package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"goodwish-chatbot/config"
	"goodwish-chatbot/internal/document"
	docDelivery "goodwish-chatbot/internal/document/delivery/rabbitmq"
	docRepo "goodwish-chatbot/internal/document/repository/qdrant"
	docUsecase "goodwish-chatbot/internal/document/usecase"
	"goodwish-chatbot/pkg/log"
	pkgQdrant "goodwish-chatbot/pkg/qdrant"
	pkgRabbit "goodwish-chatbot/pkg/rabbitmq"
	"goodwish-chatbot/pkg/voyage"
)

// Ingest worker: consumes ingest jobs published by `ingest --publish`.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uc, err := newDocumentUseCase(cfg, logger)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize document usecase: %v", err)
	}

	conn, err := pkgRabbit.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatalf(ctx, "Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	if err := pkgRabbit.DeclareTopology(conn.Channel(), cfg.Ingest.Queue); err != nil {
		logger.Fatalf(ctx, "Failed to declare queues: %v", err)
	}

	handler := docDelivery.NewConsumer(logger, uc)
	consumer := pkgRabbit.NewConsumer(conn.Channel(), pkgRabbit.ConsumerConfig{
		Queue:       cfg.Ingest.Queue,
		Concurrency: cfg.RabbitMQ.Concurrency,
		MaxRetries:  cfg.RabbitMQ.MaxRetries,
		RetryDelay:  cfg.RabbitMQ.RetryDelay,
	}, handler.Handle, logger)

	logger.Infof(ctx, "Ingest worker consuming %s", cfg.Ingest.Queue)
	if err := consumer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Consumer stopped: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Ingest worker stopped")
}

func newDocumentUseCase(cfg *config.Config, l log.Logger) (document.UseCase, error) {
	embedder, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		return nil, err
	}
	embedder.WithModel(cfg.Voyage.Model).WithBaseURL(cfg.Voyage.BaseURL)

	repo := docRepo.New(pkgQdrant.NewClient(cfg.Qdrant.URL).WithAPIKey(cfg.Qdrant.APIKey), embedder, docRepo.Config{
		Collection: cfg.Qdrant.CollectionName,
		VectorSize: cfg.Qdrant.VectorSize,
	}, l)

	return docUsecase.New(l, repo, docUsecase.Config{
		ChunkSize:    cfg.Ingest.ChunkSize,
		ChunkOverlap: cfg.Ingest.ChunkOverlap,
	}), nil
}
