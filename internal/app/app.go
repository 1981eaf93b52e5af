package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"newsarchive/internal/config"
	"newsarchive/internal/infrastructure/extract"
	"newsarchive/internal/infrastructure/feed"
	"newsarchive/internal/infrastructure/politeness"
	"newsarchive/internal/infrastructure/storage"
	"newsarchive/internal/logging"
	"newsarchive/internal/source"
	"newsarchive/internal/usecase"
)

// Application wires configuration to the pipeline and owns its lifecycle.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance. Configuration problems — an
// invalid registry, an unreadable ledger, an uncreatable data directory —
// surface here and are fatal; nothing network-related is touched yet.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	registry, err := source.NewRegistry(cfg.Sources)
	if err != nil {
		return nil, fmt.Errorf("build source registry: %w", err)
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", cfg.Storage.DataDir, err)
	}

	ledger := storage.NewLedger(cfg.Storage.LedgerPath())
	index, err := storage.OpenIndex(ledger)
	if err != nil {
		return nil, fmt.Errorf("open dedup index: %w", err)
	}
	baseLogger.Debug("dedup index loaded", "known_ids", index.Len())

	client := &http.Client{Timeout: cfg.HTTP.Timeout()}

	pipeline, err := usecase.NewPipeline(usecase.PipelineDeps{
		Sources:   registry.Sources(),
		Poller:    feed.NewPoller(client, baseLogger.With("component", "poller")),
		Extractor: extract.NewExtractor(client),
		Store:     storage.NewWriter(cfg.Storage.DataDir),
		Index:     index,
		Delayer:   politeness.NewRandomDelayer(cfg.Politeness.Min(), cfg.Politeness.Max()),
		Logger:    baseLogger.With("component", "pipeline"),
	})
	if err != nil {
		return nil, err
	}

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}, nil
}

// Run performs one complete ingestion pass. Per-source and per-entry
// failures are contained inside the pipeline; Run itself only reports.
func (a *Application) Run(ctx context.Context) error {
	report := a.pipeline.Run(ctx)

	for _, src := range report.Sources {
		if src.PollErr != nil {
			a.logger.Warn("source skipped this cycle", "source", src.Source, "error", src.PollErr)
		}
	}
	return nil
}
