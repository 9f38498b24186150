package driving

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// DocumentService manages the documents of the knowledge base.
type DocumentService interface {
	// Add embeds and stores a document, replacing any prior document
	// with the same ID.
	Add(ctx context.Context, id, content string, metadata domain.DocumentMetadata) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents in insertion order.
	List(ctx context.Context) ([]domain.Document, error)

	// Remove deletes a document. Returns true iff it existed.
	Remove(ctx context.Context, id string) (bool, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Reindex re-embeds every stored document with the active
	// vectorizer and returns how many were processed. Used after a
	// vectorization-mode change to restore uniform dimensions.
	Reindex(ctx context.Context) (int, error)
}
