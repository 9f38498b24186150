package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
	"github.com/custodia-labs/ragman/internal/logger"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source configurations.
type SourceService struct {
	sourceStore driven.SourceStore
	syncStore   driven.SyncStateStore
	knowledge   *KnowledgeService
	factory     driven.ConnectorFactory
}

// NewSourceService creates a new source service.
func NewSourceService(
	sourceStore driven.SourceStore,
	syncStore driven.SyncStateStore,
	knowledge *KnowledgeService,
	factory driven.ConnectorFactory,
) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
		syncStore:   syncStore,
		knowledge:   knowledge,
		factory:     factory,
	}
}

// Add creates a new source configuration after validating it against
// its connector.
func (s *SourceService) Add(ctx context.Context, sourceType domain.SourceType, name string, config map[string]string) (*domain.Source, error) {
	if !sourceType.IsValid() {
		return nil, fmt.Errorf("add source: %w: %s", domain.ErrUnsupportedType, sourceType)
	}
	if name == "" {
		return nil, fmt.Errorf("add source: %w: name is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	source := domain.Source{
		ID:        uuid.NewString(),
		Type:      sourceType,
		Name:      name,
		Config:    config,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.validate(ctx, source); err != nil {
		return nil, fmt.Errorf("add source %s: %w", name, err)
	}

	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, fmt.Errorf("add source %s: %w", name, err)
	}

	logger.Info("Added %s source %q (%s)", sourceType, name, source.ID)
	return &source, nil
}

// Get retrieves a source by ID.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	source, err := s.sourceStore.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source %s: %w", id, err)
	}
	return source, nil
}

// List returns all configured sources.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

// Remove deletes a source, its sync state, and the documents it
// produced.
func (s *SourceService) Remove(ctx context.Context, id string) error {
	if _, err := s.sourceStore.Get(ctx, id); err != nil {
		return fmt.Errorf("remove source %s: %w", id, err)
	}

	docs, err := s.knowledge.store.ListBySource(ctx, id)
	if err != nil {
		return fmt.Errorf("remove source %s: list documents: %w", id, err)
	}
	for i := range docs {
		// Best effort; a failed delete should not strand the source.
		if _, err := s.knowledge.Remove(ctx, docs[i].ID); err != nil {
			logger.Warn("Failed to remove document %s: %v", docs[i].ID, err)
		}
	}

	if err := s.syncStore.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Failed to remove sync state for %s: %v", id, err)
	}

	if err := s.sourceStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove source %s: %w", id, err)
	}

	logger.Info("Removed source %s and %d documents", id, len(docs))
	return nil
}

// SyncState returns the last sync bookkeeping for a source, or nil
// when it has never synced.
func (s *SourceService) SyncState(ctx context.Context, id string) (*domain.SyncState, error) {
	state, err := s.syncStore.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("sync state %s: %w", id, err)
	}
	return state, nil
}

// validate checks a source configuration by constructing its connector
// and running the connector's own validation.
func (s *SourceService) validate(ctx context.Context, source domain.Source) error {
	connector, err := s.factory.Create(ctx, source)
	if err != nil {
		return err
	}
	defer connector.Close()

	if !connector.Capabilities().SupportsValidation {
		return nil
	}
	if err := connector.Validate(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSourceValidation, err)
	}
	return nil
}
