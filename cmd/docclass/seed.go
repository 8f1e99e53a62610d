package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/catalogfile"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories and criteria from a YAML catalog file",
		Long: `Seed creates missing categories and criteria from a catalog file.
Existing categories are matched by name and criteria already present are skipped,
so the command can be re-run safely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("file")
			seeds, err := catalogfile.Load(path)
			if err != nil {
				return err
			}

			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.CatalogUC.Seed(cmd.Context(), seeds)
			if err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			printSeedReport(cmd.OutOrStdout(), path, report)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "configs/catalog.yaml", "catalog file to load")
	return cmd
}

func printSeedReport(w io.Writer, path string, report domain.SeedReport) {
	fmt.Fprintf(w, "seeded %s: %d categories created, %d criteria created, %d criteria skipped\n",
		path, report.CategoriesCreated, report.CriteriaCreated, report.CriteriaSkipped)
}
