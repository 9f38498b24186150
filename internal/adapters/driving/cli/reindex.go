package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Re-embed every stored document",
	Long: `Re-computes every document's embedding with the active vectorizer.
Run this after switching embedding providers so all stored vectors
share one dimensionality again.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	count, err := documentService.Reindex(context.Background())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	cmd.Printf("Re-embedded %d documents.\n", count)
	return nil
}
