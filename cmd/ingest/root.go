package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

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

type options struct {
	configPath string
	recreate   bool
	publish    bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "ingest [flags] FILE...",
		Short: "Index text documents into the WishChat knowledge base",
		Long: `Splits the given text files into chunks, embeds them with Voyage AI and stores
them in Qdrant. With --publish the files are queued for the ingest worker instead.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				os.Setenv("CONFIG_PATH", opts.configPath)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := log.Init(log.ZapConfig{
				Level:        cfg.Logger.Level,
				Mode:         cfg.Logger.Mode,
				Encoding:     cfg.Logger.Encoding,
				ColorEnabled: cfg.Logger.ColorEnabled,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if opts.publish {
				return publish(ctx, cmd, cfg, args, opts.recreate)
			}
			return ingest(ctx, cmd, cfg, logger, args, opts.recreate)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to config.yaml (defaults to the standard search paths)")
	cmd.Flags().BoolVar(&opts.recreate, "recreate", false, "drop and recreate the collection before indexing")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "queue the files for the ingest worker instead of indexing them here")

	return cmd
}

func ingest(ctx context.Context, cmd *cobra.Command, cfg *config.Config, l log.Logger, paths []string, recreate bool) error {
	embedder, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		return err
	}
	embedder.WithModel(cfg.Voyage.Model).WithBaseURL(cfg.Voyage.BaseURL)

	repo := docRepo.New(pkgQdrant.NewClient(cfg.Qdrant.URL).WithAPIKey(cfg.Qdrant.APIKey), embedder, docRepo.Config{
		Collection: cfg.Qdrant.CollectionName,
		VectorSize: cfg.Qdrant.VectorSize,
	}, l)
	uc := docUsecase.New(l, repo, docUsecase.Config{
		ChunkSize:    cfg.Ingest.ChunkSize,
		ChunkOverlap: cfg.Ingest.ChunkOverlap,
	})

	out, err := uc.Ingest(ctx, document.IngestInput{Paths: paths, Recreate: recreate})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d file(s) into %d chunk(s) in %q\n", out.Files, out.Chunks, cfg.Qdrant.CollectionName)
	for _, p := range out.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s\n", p)
	}
	return nil
}

func publish(ctx context.Context, cmd *cobra.Command, cfg *config.Config, paths []string, recreate bool) error {
	conn, err := pkgRabbit.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := pkgRabbit.DeclareTopology(conn.Channel(), cfg.Ingest.Queue); err != nil {
		return err
	}

	producer := docDelivery.NewProducer(pkgRabbit.NewPublisher(conn.Channel(), cfg.Ingest.Queue))
	if err := producer.Publish(ctx, docDelivery.IngestMessage{Paths: paths, Recreate: recreate}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Queued %d file(s) on %s\n", len(paths), cfg.Ingest.Queue)
	return nil
}
