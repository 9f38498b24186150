package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
	"github.com/custodia-labs/ragman/internal/logger"
)

// Ensure WatcherService implements the interface.
var _ driving.WatcherService = (*WatcherService)(nil)

// WatcherService keeps registered sources in sync until its context is
// cancelled. Sources whose connectors push change events are watched
// live; the rest are re-synced on an interval.
type WatcherService struct {
	sources  driven.SourceStore
	factory  driven.ConnectorFactory
	ingest   *IngestService
	interval time.Duration
}

// NewWatcherService creates a new watcher service. A non-positive
// interval falls back to one hour.
func NewWatcherService(sources driven.SourceStore, factory driven.ConnectorFactory, ingest *IngestService, interval time.Duration) *WatcherService {
	if interval <= 0 {
		interval = defaultWatchPeriod
	}
	return &WatcherService{
		sources:  sources,
		factory:  factory,
		ingest:   ingest,
		interval: interval,
	}
}

// Run blocks, re-ingesting on change events, until ctx is done.
func (s *WatcherService) Run(ctx context.Context) error {
	sources, err := s.sources.List(ctx)
	if err != nil {
		return fmt.Errorf("watch: list sources: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("watch: no sources configured")
	}

	logger.Section("Watch Mode")
	logger.Info("Watching %d sources (resync interval %s)", len(sources), s.interval)

	// Bring everything up to date before watching.
	if _, err := s.ingest.SyncAll(ctx); err != nil {
		logger.Error("Initial sync: %v", err)
	}

	var wg sync.WaitGroup
	var polled []domain.Source
	watching := 0

	for _, source := range sources {
		connector, err := s.factory.Create(ctx, source)
		if err != nil {
			logger.Error("Connector for %s: %v", source.Name, err)
			continue
		}

		if !connector.Capabilities().SupportsWatch {
			connector.Close()
			polled = append(polled, source)
			continue
		}

		watching++
		wg.Add(1)
		go func(source domain.Source, connector driven.Connector) {
			defer wg.Done()
			defer connector.Close()
			s.watchSource(ctx, source, connector)
		}(source, connector)
	}

	if watching == 0 && len(polled) == 0 {
		return fmt.Errorf("watch: no watchable sources")
	}

	if len(polled) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.pollSources(ctx, polled)
		}()
	}

	wg.Wait()
	return nil
}

// watchSource consumes one connector's change stream.
func (s *WatcherService) watchSource(ctx context.Context, source domain.Source, connector driven.Connector) {
	changes, err := connector.Watch(ctx)
	if err != nil {
		logger.Error("Watch %s: %v", source.Name, err)
		return
	}

	logger.Info("Watching %s for changes", source.Name)

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			s.applyChange(ctx, source, change)
		}
	}
}

// applyChange mirrors one change event into the knowledge base.
func (s *WatcherService) applyChange(ctx context.Context, source domain.Source, change domain.RawDocumentChange) {
	switch change.Type {
	case domain.ChangeCreated, domain.ChangeUpdated:
		if _, err := s.ingest.processRaw(ctx, source.ID, &change.Document); err != nil {
			logger.Error("Process %s: %v", change.Document.URI, err)
			return
		}
		logger.Info("Updated %s", change.Document.URI)

	case domain.ChangeDeleted:
		removed, err := s.ingest.knowledge.Remove(ctx, change.Document.ID)
		if err != nil {
			logger.Error("Remove %s: %v", change.Document.URI, err)
			return
		}
		if removed {
			logger.Info("Removed %s", change.Document.URI)
		}
	}
}

// pollSources re-syncs non-watchable sources on the configured
// interval.
func (s *WatcherService) pollSources(ctx context.Context, sources []domain.Source) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, source := range sources {
				report, err := s.ingest.SyncSource(ctx, source.ID)
				if err != nil {
					logger.Error("Resync %s: %v", source.Name, err)
					continue
				}
				logger.Info("Resynced %s: %d documents, %d failures", source.Name, report.DocumentsStored, report.Failures)
			}
		}
	}
}
