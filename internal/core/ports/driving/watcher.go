package driving

import "context"

// WatcherService keeps registered sources in sync until its context is
// cancelled: filesystem sources through change notifications, website
// sources through interval re-fetches.
type WatcherService interface {
	// Run blocks, re-ingesting on change events, until ctx is done.
	Run(ctx context.Context) error
}
