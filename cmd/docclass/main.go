package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kirillkom/doc-classifier/internal/bootstrap"
	"github.com/kirillkom/doc-classifier/internal/config"
	"github.com/kirillkom/doc-classifier/internal/observability/logging"
)

const serviceName = "docclass"

var rootCmd = &cobra.Command{
	Use:   "docclass",
	Short: "Operate the document classifier from the command line",
	Long: `docclass manages the category catalog and classifies stored documents
directly against Postgres, without going through the HTTP API or NATS.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level, _ := cmd.Flags().GetString("log-level")
		slog.SetDefault(logging.New(os.Stderr, serviceName, level, "text"))
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(categoriesCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openApp wires the offline application: Postgres and storage only.
func openApp(ctx context.Context) (*bootstrap.App, error) {
	app, err := bootstrap.New(ctx, config.Load(), bootstrap.Options{Service: serviceName, Offline: true})
	if err != nil {
		return nil, fmt.Errorf("open application: %w", err)
	}
	return app, nil
}
