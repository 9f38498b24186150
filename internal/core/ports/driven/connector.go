package driven

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// Connector fetches raw documents from a data source.
// Each source type (filesystem, website) implements this interface.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// SourceID returns the configured source ID.
	SourceID() string

	// Capabilities returns what this connector supports.
	Capabilities() ConnectorCapabilities

	// Validate checks if the connector is properly configured.
	// For filesystem, this checks the path exists and is readable.
	// For website, this checks the URL parses.
	// Returns nil if ready to fetch, error describing the problem otherwise.
	Validate(ctx context.Context) error

	// Fetch retrieves all documents from the source.
	// Returns channels for documents and errors; both are closed when
	// the fetch completes or the context is cancelled.
	Fetch(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch listens for real-time changes.
	// Only available if SupportsWatch is true.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases resources.
	Close() error
}

// ConnectorCapabilities describes what a connector supports.
type ConnectorCapabilities struct {
	// SupportsWatch indicates the connector can push real-time events.
	SupportsWatch bool

	// SupportsValidation indicates Validate() performs an actual check.
	SupportsValidation bool
}

// ConnectorBuilder creates a Connector from a Source.
type ConnectorBuilder func(source domain.Source) (Connector, error)

// ConnectorFactory creates connectors from source configuration.
// It maintains a registry of source types and their builders.
type ConnectorFactory interface {
	// Create returns a Connector for the given source.
	// Returns domain.ErrUnsupportedType if the source type is unknown.
	Create(ctx context.Context, source domain.Source) (Connector, error)

	// Register adds a connector builder for the given type.
	Register(sourceType domain.SourceType, builder ConnectorBuilder)

	// SupportedTypes returns all registered source types.
	SupportedTypes() []domain.SourceType
}
