package driving

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// SourceService manages source configurations.
type SourceService interface {
	// Add creates a new source configuration after validating it.
	Add(ctx context.Context, sourceType domain.SourceType, name string, config map[string]string) (*domain.Source, error)

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Remove deletes a source and the documents it produced.
	Remove(ctx context.Context, id string) error

	// SyncState returns the last sync bookkeeping for a source,
	// or nil when it has never synced.
	SyncState(ctx context.Context, id string) (*domain.SyncState, error)
}
