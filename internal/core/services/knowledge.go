package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
	"github.com/custodia-labs/ragman/internal/logger"
)

// Ensure KnowledgeService implements the interfaces.
var (
	_ driving.DocumentService = (*KnowledgeService)(nil)
	_ driving.SearchService   = (*KnowledgeService)(nil)
)

// KnowledgeService manages the document knowledge base. It embeds
// content through the configured vectorizer and delegates storage and
// similarity ranking to the knowledge store.
type KnowledgeService struct {
	store      driven.KnowledgeStore
	vectorizer driven.Vectorizer
}

// NewKnowledgeService creates a new knowledge service.
func NewKnowledgeService(store driven.KnowledgeStore, vectorizer driven.Vectorizer) *KnowledgeService {
	return &KnowledgeService{
		store:      store,
		vectorizer: vectorizer,
	}
}

// Add embeds and stores a document, replacing any prior document with
// the same ID.
func (s *KnowledgeService) Add(ctx context.Context, id, content string, metadata domain.DocumentMetadata) (*domain.Document, error) {
	return s.AddForSource(ctx, "", id, content, metadata)
}

// AddForSource embeds and stores a document attributed to a source.
// An empty sourceID marks the document as manually added.
func (s *KnowledgeService) AddForSource(ctx context.Context, sourceID, id, content string, metadata domain.DocumentMetadata) (*domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("add document: %w: id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("add document %s: %w: content is required", id, domain.ErrInvalidInput)
	}

	if metadata.Name == "" {
		metadata.Name = id
	}
	if metadata.SourceKind == "" {
		metadata.SourceKind = domain.SourceKindText
	}
	if metadata.SizeBytes == 0 {
		metadata.SizeBytes = int64(len(content))
	}
	if metadata.CreatedAt.IsZero() {
		metadata.CreatedAt = time.Now()
	}

	embedding, err := s.vectorizer.Vectorize(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("add document %s: embed content: %w", id, err)
	}

	doc := domain.Document{
		ID:        id,
		SourceID:  sourceID,
		Content:   content,
		Embedding: embedding,
		Metadata:  metadata,
	}
	if err := s.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("add document %s: %w", id, err)
	}

	logger.Debug("Stored document %s (%d tokens, %d dimensions)", id, doc.TokenCount(), len(embedding))
	return &doc, nil
}

// Get retrieves a document by ID.
func (s *KnowledgeService) Get(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// List returns all documents in insertion order.
func (s *KnowledgeService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Remove deletes a document. Returns true iff it existed.
func (s *KnowledgeService) Remove(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("remove document %s: %w", id, err)
	}
	if removed {
		logger.Debug("Removed document %s", id)
	}
	return removed, nil
}

// Count returns the number of stored documents.
func (s *KnowledgeService) Count(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

// Reindex re-embeds every stored document with the active vectorizer.
// Run it after switching embedding providers so all documents share
// one dimensionality again.
func (s *KnowledgeService) Reindex(ctx context.Context) (int, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("reindex: %w", err)
	}

	logger.Section("Reindex")
	logger.Info("Re-embedding %d documents with %s", len(docs), s.vectorizer.ModelName())

	reindexed := 0
	for i := range docs {
		doc := docs[i]

		embedding, err := s.vectorizer.Vectorize(ctx, doc.Content)
		if err != nil {
			return reindexed, fmt.Errorf("reindex document %s: %w", doc.ID, err)
		}
		doc.Embedding = embedding

		if err := s.store.Save(ctx, doc); err != nil {
			return reindexed, fmt.Errorf("reindex document %s: %w", doc.ID, err)
		}
		reindexed++
	}

	return reindexed, nil
}

// Search embeds the query and returns the topK most similar documents.
// An empty store yields an empty result set without calling the
// vectorizer. A non-positive topK falls back to domain.DefaultTopK.
func (s *KnowledgeService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search: %w", domain.ErrEmptyQuery)
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if count == 0 {
		logger.Debug("Knowledge base is empty, skipping embedding call")
		return []domain.SearchResult{}, nil
	}

	vector, err := s.vectorizer.Vectorize(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}

	results, err := s.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Info("Retrieved %d of %d documents for %q", len(results), count, query)
	return results, nil
}

// Stats reports knowledge base statistics.
func (s *KnowledgeService) Stats(ctx context.Context) (domain.KnowledgeBaseStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return domain.KnowledgeBaseStats{}, fmt.Errorf("knowledge base stats: %w", err)
	}
	if stats.VectorDimensions == 0 {
		stats.VectorDimensions = s.vectorizer.Dimensions()
	}
	return stats, nil
}
