package driven

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// AnswerService generates a natural-language answer for a query from
// assembled context. Remote implementations may fail; the extractive
// implementation summarises the context locally and never does.
type AnswerService interface {
	// Generate returns an answer for query grounded in contextText.
	// Sources carry the similarity scores behind the context; the
	// extractive fallback reports their average relevance.
	Generate(ctx context.Context, query, contextText string, sources []domain.SearchResult) (string, error)

	// ModelName returns the model or method identifier.
	ModelName() string

	// Ping verifies the provider is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
