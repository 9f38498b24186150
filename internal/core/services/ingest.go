package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
	"github.com/custodia-labs/ragman/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns external content into stored documents. It
// covers one-shot ingestion (text snippets, single files, single URLs)
// and full syncs of registered sources.
type IngestService struct {
	knowledge   *KnowledgeService
	sourceStore driven.SourceStore
	syncStore   driven.SyncStateStore
	factory     driven.ConnectorFactory
	registry    driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline

	mu          sync.Mutex
	activeSyncs map[string]bool
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	knowledge *KnowledgeService,
	sourceStore driven.SourceStore,
	syncStore driven.SyncStateStore,
	factory driven.ConnectorFactory,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
) *IngestService {
	return &IngestService{
		knowledge:   knowledge,
		sourceStore: sourceStore,
		syncStore:   syncStore,
		factory:     factory,
		registry:    registry,
		pipeline:    pipeline,
		activeSyncs: make(map[string]bool),
	}
}

// IngestText stores manually entered text under a generated ID.
func (s *IngestService) IngestText(ctx context.Context, name, content string) (*domain.Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("ingest text: %w: content is required", domain.ErrInvalidInput)
	}

	id := uuid.NewString()
	if name == "" {
		name = "note-" + id[:8]
	}

	doc, err := s.knowledge.Add(ctx, id, content, domain.DocumentMetadata{
		Name:       name,
		SourceKind: domain.SourceKindText,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest text: %w", err)
	}

	logger.Info("Ingested text %q as document %s", name, id)
	return doc, nil
}

// IngestFile reads, normalises, and stores a single local file through
// a transient filesystem connector.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*domain.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("ingest file %s: %w", path, err)
	}

	source := domain.Source{
		ID:   "adhoc-file-" + uuid.NewString(),
		Type: domain.SourceTypeFilesystem,
		Name: filepath.Base(abs),
		Config: map[string]string{
			"path": abs,
		},
	}

	doc, err := s.fetchOne(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("ingest file %s: %w", path, err)
	}
	return doc, nil
}

// IngestURL fetches a web page through a transient website connector,
// extracts its readable content, and stores it.
func (s *IngestService) IngestURL(ctx context.Context, url string) (*domain.Document, error) {
	source := domain.Source{
		ID:   "adhoc-url-" + uuid.NewString(),
		Type: domain.SourceTypeWebsite,
		Name: url,
		Config: map[string]string{
			"url": url,
		},
	}

	doc, err := s.fetchOne(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("ingest url %s: %w", url, err)
	}
	return doc, nil
}

// SyncSource re-ingests everything a registered source provides.
// Only one sync per source runs at a time.
func (s *IngestService) SyncSource(ctx context.Context, sourceID string) (*driving.SyncReport, error) {
	if err := s.beginSync(sourceID); err != nil {
		return nil, fmt.Errorf("sync %s: %w", sourceID, err)
	}
	defer s.endSync(sourceID)

	source, err := s.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("sync %s: get source: %w", sourceID, err)
	}

	connector, err := s.factory.Create(ctx, *source)
	if err != nil {
		return nil, fmt.Errorf("sync %s: create connector: %w", sourceID, err)
	}
	defer connector.Close()

	if connector.Capabilities().SupportsValidation {
		if err := connector.Validate(ctx); err != nil {
			return nil, fmt.Errorf("sync %s: %w: %w", sourceID, domain.ErrSourceValidation, err)
		}
	}

	logger.Section("Source Sync")
	logger.Info("Syncing source %s (%s)", source.Name, source.Type)

	report := &driving.SyncReport{SourceID: sourceID}
	docsCh, errsCh := connector.Fetch(ctx)

	for docsCh != nil || errsCh != nil {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("sync %s: %w", sourceID, ctx.Err())

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			report.Failures++
			logger.Warn("Connector error from %s: %v", source.Name, err)

		case raw, ok := <-docsCh:
			if !ok {
				docsCh = nil
				continue
			}
			if _, err := s.processRaw(ctx, sourceID, &raw); err != nil {
				report.Failures++
				logger.Warn("Failed to process %s: %v", raw.URI, err)
				continue
			}
			report.DocumentsStored++
		}
	}

	state := domain.SyncState{
		SourceID:        sourceID,
		LastSync:        time.Now(),
		DocumentsSynced: report.DocumentsStored,
	}
	if err := s.syncStore.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("sync %s: save sync state: %w", sourceID, err)
	}

	logger.Info("Sync complete: %d documents, %d failures", report.DocumentsStored, report.Failures)
	return report, nil
}

// SyncAll re-ingests every registered source. Sources that fail do not
// stop the others; their errors are joined into the returned error.
func (s *IngestService) SyncAll(ctx context.Context) ([]driving.SyncReport, error) {
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync all: list sources: %w", err)
	}

	reports := make([]driving.SyncReport, 0, len(sources))
	var errs []error
	for _, source := range sources {
		report, err := s.SyncSource(ctx, source.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reports = append(reports, *report)
	}

	return reports, errors.Join(errs...)
}

// fetchOne runs a transient connector expecting a single document and
// stores what it produces without source attribution.
func (s *IngestService) fetchOne(ctx context.Context, source domain.Source) (*domain.Document, error) {
	// Cancelling on return releases the connector's fetch goroutine if
	// we bail out on the first error.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	connector, err := s.factory.Create(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	if connector.Capabilities().SupportsValidation {
		if err := connector.Validate(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrSourceValidation, err)
		}
	}

	docsCh, errsCh := connector.Fetch(ctx)

	var stored *domain.Document
	for docsCh != nil || errsCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			return nil, fmt.Errorf("fetch: %w", err)

		case raw, ok := <-docsCh:
			if !ok {
				docsCh = nil
				continue
			}
			doc, err := s.processRaw(ctx, "", &raw)
			if err != nil {
				return nil, err
			}
			if stored == nil {
				stored = doc
			}
		}
	}

	if stored == nil {
		return nil, fmt.Errorf("fetch %s: no documents produced", source.Name)
	}
	return stored, nil
}

// processRaw runs one raw document through normalisation, the
// post-processor pipeline, and embedding into the knowledge base.
func (s *IngestService) processRaw(ctx context.Context, sourceID string, raw *domain.RawDocument) (*domain.Document, error) {
	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.URI, err)
	}

	content, err := s.pipeline.Process(ctx, result.Document.Content)
	if err != nil {
		return nil, fmt.Errorf("post-process %s: %w", raw.URI, err)
	}

	return s.knowledge.AddForSource(ctx, sourceID, result.Document.ID, content, result.Document.Metadata)
}

// beginSync marks a source sync as running.
func (s *IngestService) beginSync(sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeSyncs[sourceID] {
		return domain.ErrSyncInProgress
	}
	s.activeSyncs[sourceID] = true
	return nil
}

// endSync clears the running marker for a source.
func (s *IngestService) endSync(sourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activeSyncs, sourceID)
}
