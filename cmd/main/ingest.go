package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NEMYSESx/menu-ingest/internal/config"
	"github.com/NEMYSESx/menu-ingest/internal/embedders"
	"github.com/NEMYSESx/menu-ingest/internal/index"
	"github.com/NEMYSESx/menu-ingest/internal/logger"
	"github.com/NEMYSESx/menu-ingest/internal/metrics"
	"github.com/NEMYSESx/menu-ingest/internal/processor"
	"github.com/NEMYSESx/menu-ingest/internal/record"
	"github.com/NEMYSESx/menu-ingest/internal/source"
	"github.com/NEMYSESx/menu-ingest/internal/storage"
	"github.com/NEMYSESx/menu-ingest/internal/text"
	"github.com/NEMYSESx/menu-ingest/internal/tika"
	"github.com/NEMYSESx/menu-ingest/internal/validator"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Process every document in the configured source, persist summaries and index records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runIngest(ctx, cfg)
		},
	}
}

func runIngest(ctx context.Context, cfg *config.Config) error {
	log := logger.GetLogger()

	fileValidator := validator.NewFileValidator(&cfg.Processing)
	src, closeSource, err := source.FromConfig(ctx, &cfg.Source, fileValidator.IsSupported)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer closeSource()

	pipeline := processor.New(&cfg.Processing, src, textExtractor(cfg))
	pipeline.Metrics = metrics.NewRecorder()
	defer func() {
		if err := pipeline.Metrics.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			log.Warnw("Failed to push metrics", "error", err)
		}
	}()

	if cfg.Pricing.BasePricingFile != "" {
		base, err := record.LoadBasePricing(cfg.Pricing.BasePricingFile)
		if err != nil {
			return err
		}
		pipeline.BasePricing = base
	}

	sinks := storage.MultiSink{storage.NewLocalFile(cfg.Storage.SummariesPath)}
	if cfg.Storage.GCSBucket != "" {
		object, err := storage.NewGCSObject(ctx, cfg.Storage.GCSBucket, cfg.Storage.GCSObject, cfg.Source.CredentialsFile)
		if err != nil {
			return err
		}
		defer object.Close()
		sinks = append(sinks, object)
	}
	pipeline.Sink = sinks

	var indexers index.Multi
	if cfg.Qdrant.Enabled {
		qdrant, err := newQdrant(cfg)
		if err != nil {
			return err
		}
		defer qdrant.Close()
		indexers = append(indexers, qdrant)
	}
	if cfg.Kafka.Enabled {
		feed, err := index.NewKafkaFeed(&cfg.Kafka)
		if err != nil {
			return err
		}
		defer feed.Close()
		indexers = append(indexers, feed)
	}
	if len(indexers) > 0 {
		pipeline.Indexer = indexers
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	report, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(report))
	return nil
}

func textExtractor(cfg *config.Config) *tika.Router {
	cleaner := text.NewCleaner(cfg.Processing.EnableTextClean)
	return tika.NewRouter(tika.NewPlainText(cleaner), tika.NewClient(&cfg.Tika, cleaner))
}

func newQdrant(cfg *config.Config) (*index.Qdrant, error) {
	embedder, err := embedders.NewGeminiEmbedderWithConfig(cfg.Gemini)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	logger.GetLogger().Infow("Connecting to qdrant",
		"host", cfg.Qdrant.Host,
		"port", cfg.Qdrant.Port,
		"collection", cfg.Qdrant.Collection,
		"gemini_key", logger.MaskSecret(cfg.Gemini.APIKey))

	return index.NewQdrant(cfg.Qdrant, embedder)
}
