package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/kirillkom/doc-classifier/internal/adapters/http"
	"github.com/kirillkom/doc-classifier/internal/adapters/http/openapi"
	"github.com/kirillkom/doc-classifier/internal/bootstrap"
	"github.com/kirillkom/doc-classifier/internal/config"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/catalogfile"
	"github.com/kirillkom/doc-classifier/internal/observability/logging"
	"github.com/kirillkom/doc-classifier/internal/observability/metrics"
)

const serviceName = "api"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Service:    serviceName,
		Registerer: httpMetrics.Registry(),
	})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if cfg.CatalogSeedPath != "" {
		seeds, err := catalogfile.Load(cfg.CatalogSeedPath)
		if err != nil {
			slog.Error("catalog_seed_load_failed", "path", cfg.CatalogSeedPath, "error", err)
			os.Exit(1)
		}
		report, err := app.CatalogUC.Seed(ctx, seeds)
		if err != nil {
			slog.Error("catalog_seed_failed", "path", cfg.CatalogSeedPath, "error", err)
			os.Exit(1)
		}
		slog.Info("catalog_seeded",
			"path", cfg.CatalogSeedPath,
			"categories_created", report.CategoriesCreated,
			"criteria_created", report.CriteriaCreated,
			"criteria_skipped", report.CriteriaSkipped,
		)
	}

	doc, err := openapi.Load(ctx)
	if err != nil {
		slog.Error("openapi_load_failed", "error", err)
		os.Exit(1)
	}
	validator, err := openapi.NewValidator(doc)
	if err != nil {
		slog.Error("openapi_validator_failed", "error", err)
		os.Exit(1)
	}

	router := httpadapter.NewRouter(app.IngestUC, app.DocumentsUC, app.ClassifyUC, app.CatalogUC, httpadapter.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		Metrics:        httpMetrics.Handler(),
		Validator:      validator,
		OnUpload:       httpMetrics.ObserveUpload,
	}).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      httpMetrics.Middleware(serviceName, router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}
