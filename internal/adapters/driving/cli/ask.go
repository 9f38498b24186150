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
	askJSON    bool
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the knowledge base",
	Long: `Runs the full pipeline: retrieves the most relevant documents,
assembles a bounded context window, and generates an answer with
confidence and source attribution.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full response as JSON")
	askCmd.Flags().BoolVarP(&askSources, "sources", "s", false, "list the sources behind the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	response, err := pipelineService.Ask(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(response.Answer)
	cmd.Println()
	cmd.Printf("Confidence: %d%%  |  %d source(s)  |  %dms\n",
		response.Context.Confidence, len(response.Sources), response.ProcessingTimeMs)

	if askSources && len(response.Sources) > 0 {
		cmd.Println()
		printSources(cmd, response.Sources)
	}

	return nil
}

func printSources(cmd *cobra.Command, sources []domain.SearchResult) {
	cmd.Println("Sources:")
	for i := range sources {
		cmd.Printf("  [%d] %s (%.0f%%)\n",
			i+1, sources[i].Document.DisplayName(), sources[i].Similarity*100)
	}
}
