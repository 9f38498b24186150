package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure KnowledgeStore implements the interface.
var _ driven.KnowledgeStore = (*KnowledgeStore)(nil)

// relevanceCutoff is the similarity below which a result is discarded.
// Scores this low are noise from incidental token overlap.
const relevanceCutoff = 0.1

// KnowledgeStore is an in-memory implementation of
// driven.KnowledgeStore. Documents keep their insertion order, which
// breaks ranking ties and feeds the stats accessors. Replacing a
// document re-inserts it at the end.
type KnowledgeStore struct {
	mu    sync.RWMutex
	docs  map[string]domain.Document
	order []string
}

// NewKnowledgeStore creates a new in-memory knowledge store.
func NewKnowledgeStore() *KnowledgeStore {
	return &KnowledgeStore{
		docs: make(map[string]domain.Document),
	}
}

// Save stores a document, replacing any existing document with the
// same ID as a single transition.
func (s *KnowledgeStore) Save(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.ID]; exists {
		s.removeLocked(doc.ID)
	}
	s.docs[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	return nil
}

// Delete removes a document. Returns true iff it existed.
func (s *KnowledgeStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; !exists {
		return false, nil
	}
	s.removeLocked(id)
	return true, nil
}

// Get retrieves a document by ID.
func (s *KnowledgeStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// List returns all documents in insertion order.
func (s *KnowledgeStore) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, s.docs[id])
	}
	return docs, nil
}

// ListBySource returns the documents produced by a source, in
// insertion order.
func (s *KnowledgeStore) ListBySource(_ context.Context, sourceID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []domain.Document
	for _, id := range s.order {
		if s.docs[id].SourceID == sourceID {
			docs = append(docs, s.docs[id])
		}
	}
	return docs, nil
}

// Count returns the number of stored documents.
func (s *KnowledgeStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

// Search scores every stored document against the query vector with
// cosine similarity, sorts descending (ties keep insertion order),
// truncates to topK, and discards results at or below the relevance
// cutoff.
func (s *KnowledgeStore) Search(_ context.Context, query []float32, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return []domain.SearchResult{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]domain.SearchResult, 0, len(s.order))
	for _, id := range s.order {
		doc := s.docs[id]
		scored = append(scored, domain.SearchResult{
			Document:   &doc,
			Similarity: Cosine(query, doc.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	results := make([]domain.SearchResult, 0, len(scored))
	for _, res := range scored {
		if res.Similarity <= relevanceCutoff {
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

// Stats reports document count, token totals, and the embedding
// dimensionality of the first stored document.
func (s *KnowledgeStore) Stats(_ context.Context) (domain.KnowledgeBaseStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.KnowledgeBaseStats{DocumentCount: len(s.order)}
	if len(s.order) == 0 {
		return stats, nil
	}

	for _, id := range s.order {
		doc := s.docs[id]
		stats.TotalTokens += doc.TokenCount()
	}
	stats.AverageTokensPerDoc = int(math.Round(float64(stats.TotalTokens) / float64(len(s.order))))

	first := s.docs[s.order[0]]
	stats.VectorDimensions = len(first.Embedding)

	return stats, nil
}

// removeLocked deletes a document and its insertion-order slot.
// Callers must hold the write lock.
func (s *KnowledgeStore) removeLocked(id string) {
	delete(s.docs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
