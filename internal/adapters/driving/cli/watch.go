package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep sources in sync until interrupted",
	Long: `Watches registered sources for changes: filesystem sources through
change notifications, website sources through interval re-fetches.
An initial sync of every source runs first. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if watcherService == nil {
		return errors.New("watcher service not configured")
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Running initial sync...")
	reports, err := ingestService.SyncAll(ctx)
	if err != nil {
		return fmt.Errorf("initial sync failed: %w", err)
	}
	for _, report := range reports {
		printSyncReport(cmd, report)
	}

	cmd.Println("Watching for changes (Ctrl-C to stop)...")
	if err := watcherService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Println("Stopped.")
	return nil
}
