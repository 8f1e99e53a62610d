package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect the category catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			withCriteria, _ := cmd.Flags().GetBool("criteria")

			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			categories, err := app.CatalogUC.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("list categories: %w", err)
			}
			if len(categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No categories found. Use 'docclass seed' to load a catalog.")
				return nil
			}

			var criteria []domain.Criterion
			if withCriteria {
				criteria, err = app.CatalogUC.ListCriteria(cmd.Context(), domain.CriteriaFilter{})
				if err != nil {
					return fmt.Errorf("list criteria: %w", err)
				}
			}
			return printCategories(cmd.OutOrStdout(), categories, criteria)
		},
	}
	cmd.Flags().Bool("criteria", false, "also list each category's criteria")
	return cmd
}

func printCategories(out io.Writer, categories []domain.Category, criteria []domain.Criterion) error {
	byCategory := make(map[int64][]domain.Criterion)
	for _, c := range criteria {
		byCategory[c.CategoryID] = append(byCategory[c.CategoryID], c)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR\tDESCRIPTION")
	for _, category := range categories {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", category.ID, category.Name, category.Color, category.Description)
		for _, c := range byCategory[category.ID] {
			fmt.Fprintf(w, "\t  %s\t%.2f\t%s\n", c.Name, c.Weight, c.Pattern)
		}
	}
	return w.Flush()
}
