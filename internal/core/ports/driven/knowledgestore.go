package driven

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// KnowledgeStore holds documents with their embeddings and answers
// similarity queries. Implementations keep insertion order: it breaks
// ranking ties and feeds the stats accessors.
type KnowledgeStore interface {
	// Save stores a document, replacing any existing document with
	// the same ID as a single observable transition.
	Save(ctx context.Context, doc domain.Document) error

	// Delete removes a document. Returns true iff it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Get retrieves a document by ID.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents in insertion order.
	List(ctx context.Context) ([]domain.Document, error)

	// ListBySource returns the documents produced by a source,
	// in insertion order.
	ListBySource(ctx context.Context, sourceID string) ([]domain.Document, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Search scores every stored document against the query vector
	// with cosine similarity and returns at most topK results sorted
	// descending, ties broken by insertion order. Results with
	// similarity at or below the relevance cutoff are discarded.
	Search(ctx context.Context, query []float32, topK int) ([]domain.SearchResult, error)

	// Stats reports document count, token totals, and the embedding
	// dimensionality of the first stored document.
	Stats(ctx context.Context) (domain.KnowledgeBaseStats, error)
}
