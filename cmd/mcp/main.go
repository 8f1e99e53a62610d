package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/doc-classifier/internal/adapters/mcp"
	"github.com/kirillkom/doc-classifier/internal/bootstrap"
	"github.com/kirillkom/doc-classifier/internal/config"
	"github.com/kirillkom/doc-classifier/internal/observability/logging"
)

const (
	serviceName = "mcp"
	version     = "0.1.0"
)

func main() {
	cfg := config.Load()
	// stdout carries the MCP protocol, so logs go to stderr.
	slog.SetDefault(logging.New(os.Stderr, serviceName, cfg.LogLevel, "json"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Service: serviceName, Offline: true})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	tools := mcpadapter.NewTools(app.ClassifyUC, app.DocumentsUC, app.CatalogUC)
	if err := server.ServeStdio(tools.NewServer(version)); err != nil {
		slog.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
