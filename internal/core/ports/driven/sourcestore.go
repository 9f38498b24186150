package driven

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// SourceStore persists source configurations.
type SourceStore interface {
	// Save stores or updates a source.
	Save(ctx context.Context, source domain.Source) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// Delete removes a source.
	Delete(ctx context.Context, id string) error

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)
}

// SyncStateStore persists per-source sync progress.
type SyncStateStore interface {
	// Save stores or updates sync state.
	Save(ctx context.Context, state domain.SyncState) error

	// Get retrieves sync state for a source.
	Get(ctx context.Context, sourceID string) (*domain.SyncState, error)

	// Delete removes sync state for a source.
	Delete(ctx context.Context, sourceID string) error
}
