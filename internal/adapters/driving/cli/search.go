package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

var (
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Performs similarity search across all indexed documents without
generating an answer. Results are ranked by cosine similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	results, err := searchService.Search(context.Background(), args[0], searchTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		doc := results[i].Document
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, doc.DisplayName(), results[i].Similarity)
		cmd.Printf("      %s\n", snippet(doc.Content, 120))
		cmd.Println()
	}

	return nil
}

// snippet returns the first maxLen characters of content on one line.
func snippet(content string, maxLen int) string {
	oneLine := make([]rune, 0, maxLen)
	for _, r := range content {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		oneLine = append(oneLine, r)
		if len(oneLine) >= maxLen {
			return string(oneLine) + "..."
		}
	}
	return string(oneLine)
}
