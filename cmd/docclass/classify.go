package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <document-id>",
		Short: "Classify a stored document and record the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			outcome, err := app.ClassifyUC.Classify(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", domain.ErrorCode(err), err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(outcome)
			}
			printOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print the full outcome as JSON")
	return cmd
}

func printOutcome(w io.Writer, outcome *domain.ClassificationOutcome) {
	matched := "none"
	if len(outcome.Result.MatchedCriteria) > 0 {
		matched = strings.Join(outcome.Result.MatchedCriteria, ", ")
	}
	fmt.Fprintf(w, "document:   %s (%s)\n", outcome.Document.ID, outcome.Document.Filename)
	fmt.Fprintf(w, "category:   %s [%d]\n", outcome.Category.Name, outcome.Category.ID)
	fmt.Fprintf(w, "confidence: %s (%.2f)\n", outcome.Result.ConfidenceLevel, outcome.Result.ConfidenceScore)
	fmt.Fprintf(w, "matched:    %s\n", matched)
	fmt.Fprintf(w, "result:     %s\n", outcome.Result.ID)
}
