package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base and pipeline statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	stats, err := pipelineService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Knowledge Base")
	cmd.Printf("  Documents:          %d\n", stats.DocumentCount)
	cmd.Printf("  Total tokens:       %d\n", stats.TotalTokens)
	cmd.Printf("  Avg tokens per doc: %d\n", stats.AverageTokensPerDoc)
	cmd.Printf("  Vector dimensions:  %d\n", stats.VectorDimensions)
	cmd.Println()
	cmd.Printf("Pipeline %s\n", stats.PipelineVersion)
	for _, feature := range stats.Features {
		cmd.Printf("  - %s\n", feature)
	}
	return nil
}
