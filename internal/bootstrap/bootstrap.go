package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/doc-classifier/internal/config"
	"github.com/kirillkom/doc-classifier/internal/core/ports"
	"github.com/kirillkom/doc-classifier/internal/core/usecase"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/graph/neo4j"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/queue/nats"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/resilience"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/doc-classifier/internal/observability/metrics"
)

type Options struct {
	// Service labels metrics and the resilience observer.
	Service string
	// Registerer receives classification and resilience metrics. Nil disables them.
	Registerer prometheus.Registerer
	// Offline skips NATS and the graph projection. Used by the CLI and the MCP server.
	Offline bool
}

type App struct {
	Config config.Config

	DB       *sql.DB
	Queue    ports.MessageQueue
	Executor *resilience.Executor

	IngestUC    ports.DocumentIngestor
	DocumentsUC ports.DocumentReader
	ClassifyUC  ports.DocumentClassificationService
	CatalogUC   *usecase.CatalogUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	closers := []func(){func() { _ = db.Close() }}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		closeAll()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	documents := postgres.NewDocumentRepository(db)
	categories := postgres.NewCategoryRepository(db)
	criteria := postgres.NewCriterionRepository(db)
	results := postgres.NewClassificationRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	extractor := plaintext.NewExtractor(storage)

	executor := resilience.NewExecutor(cfg.Resilience)
	classifyOpts := usecase.ClassifyOptions{FallbackLogInterval: cfg.PatternFallbackLogInterval}
	if opts.Registerer != nil {
		executor.WithObserver(metrics.NewResilienceMetrics(opts.Service, opts.Registerer))
		classifyOpts.Observer = metrics.NewClassificationMetrics(opts.Service, opts.Registerer)
	}
	slog.Info("resilience_configured", "service", opts.Service, "policy", cfg.Resilience)

	var queue ports.MessageQueue
	if !opts.Offline {
		q, err := nats.New(cfg.NATSURL, nats.Options{
			Subject:            cfg.NATSClassifySubject,
			QueueGroup:         cfg.NATSQueueGroup,
			ResilienceExecutor: executor,
		})
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("init message queue: %w", err)
		}
		queue = q
		closers = append(closers, q.Close)

		if cfg.GraphProjectionEnabled() {
			projector, err := neo4j.NewProjector(ctx, neo4j.Config{
				URI:      cfg.Neo4jURI,
				Username: cfg.Neo4jUser,
				Password: cfg.Neo4jPassword,
				Database: cfg.Neo4jDatabase,
			}, executor)
			if err != nil {
				closeAll()
				return nil, fmt.Errorf("init graph projection: %w", err)
			}
			classifyOpts.Sinks = append(classifyOpts.Sinks, projector)
			closers = append(closers, func() { _ = projector.Close(context.Background()) })
		}
	}

	return &App{
		Config:   cfg,
		DB:       db,
		Queue:    queue,
		Executor: executor,

		IngestUC:    usecase.NewIngestDocumentUseCase(documents, storage, extractor, queue, cfg.AutoClassifyOnUpload),
		DocumentsUC: usecase.NewDocumentQueryUseCase(documents, results),
		ClassifyUC:  usecase.NewClassifyDocumentUseCase(documents, criteria, results, classifyOpts),
		CatalogUC:   usecase.NewCatalogUseCase(categories, criteria),

		closeFn: closeAll,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
