package connectors

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ConnectorFactory = (*Factory)(nil)

// Factory maps source types to their connector builders.
// It allows dynamic construction of connectors from source configuration.
type Factory struct {
	mu       sync.RWMutex
	builders map[domain.SourceType]driven.ConnectorBuilder
}

// NewFactory creates an empty connector factory.
func NewFactory() *Factory {
	return &Factory{
		builders: make(map[domain.SourceType]driven.ConnectorBuilder),
	}
}

// Register adds a connector builder for the given source type.
// Registering the same type twice replaces the previous builder.
func (f *Factory) Register(sourceType domain.SourceType, builder driven.ConnectorBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[sourceType] = builder
}

// Create returns a Connector for the given source.
func (f *Factory) Create(_ context.Context, source domain.Source) (driven.Connector, error) {
	f.mu.RLock()
	builder, ok := f.builders[source.Type]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, source.Type)
	}
	return builder(source)
}

// SupportedTypes returns all registered source types, sorted.
func (f *Factory) SupportedTypes() []domain.SourceType {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]domain.SourceType, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
