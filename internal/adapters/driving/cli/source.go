package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

var (
	sourceName       string
	sourcePath       string
	sourceURL        string
	sourceExtensions string
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage document sources",
	Long: `Sources are registered ingestion origins: a local directory or a
web page. Syncing a source (re-)ingests everything it provides.`,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [filesystem|website]",
	Short: "Register a new source",
	Long: `Registers a source of the given type.

Examples:
  ragman source add filesystem --path ./docs --extensions md,txt
  ragman source add website --url https://example.com/handbook`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered sources",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove [source-id]",
	Short: "Remove a source and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

var sourceSyncCmd = &cobra.Command{
	Use:   "sync [source-id]",
	Short: "Synchronise sources into the knowledge base",
	Long: `Re-ingests documents from configured sources. With a source ID only
that source is synchronised; otherwise all sources are.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSourceSync,
}

func init() {
	sourceAddCmd.Flags().StringVar(&sourceName, "name", "", "human-readable source name")
	sourceAddCmd.Flags().StringVar(&sourcePath, "path", "", "directory or file path (filesystem sources)")
	sourceAddCmd.Flags().StringVar(&sourceURL, "url", "", "page address (website sources)")
	sourceAddCmd.Flags().StringVar(&sourceExtensions, "extensions", "", "comma-separated extension allowlist (filesystem sources)")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceSyncCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sourceType := domain.SourceType(args[0])
	config := map[string]string{}

	switch sourceType {
	case domain.SourceTypeFilesystem:
		if sourcePath == "" {
			return errors.New("filesystem sources require --path")
		}
		config["path"] = sourcePath
		if sourceExtensions != "" {
			config["extensions"] = sourceExtensions
		}
	case domain.SourceTypeWebsite:
		if sourceURL == "" {
			return errors.New("website sources require --url")
		}
		config["url"] = sourceURL
	default:
		return fmt.Errorf("unknown source type %q (expected filesystem or website)", args[0])
	}

	source, err := sourceService.Add(context.Background(), sourceType, sourceName, config)
	if err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}

	cmd.Printf("Added %s source %s (%s).\n", source.Type, source.ID, source.Name)
	cmd.Println("Run \"ragman source sync\" to ingest its documents.")
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()
	sources, err := sourceService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	cmd.Println("Sources:")
	cmd.Println()
	for i := range sources {
		src := sources[i]
		cmd.Printf("  %s\n", src.ID)
		cmd.Printf("    Name: %s\n", src.Name)
		cmd.Printf("    Type: %s\n", src.Type)
		for key, value := range src.Config {
			cmd.Printf("    %s: %s\n", key, value)
		}
		if state, err := sourceService.SyncState(ctx, src.ID); err == nil && state != nil {
			cmd.Printf("    Last sync: %s (%d documents)\n",
				state.LastSync.Format("2006-01-02 15:04:05"), state.DocumentsSynced)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d sources\n", len(sources))
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	if err := sourceService.Remove(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to remove source: %w", err)
	}

	cmd.Printf("Removed source %s and its documents.\n", args[0])
	return nil
}

func runSourceSync(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		report, err := ingestService.SyncSource(ctx, args[0])
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		printSyncReport(cmd, *report)
		return nil
	}

	reports, err := ingestService.SyncAll(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if len(reports) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}
	for _, report := range reports {
		printSyncReport(cmd, report)
	}
	return nil
}

func printSyncReport(cmd *cobra.Command, report driving.SyncReport) {
	cmd.Printf("Source %s: %d documents stored", report.SourceID, report.DocumentsStored)
	if report.Failures > 0 {
		cmd.Printf(", %d failed", report.Failures)
	}
	cmd.Println()
}
