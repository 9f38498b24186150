package driving

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// SearchService provides raw similarity search to external actors,
// without context assembly or answer generation.
type SearchService interface {
	// Search embeds the query and returns the topK most similar
	// documents. An empty store yields an empty result set without
	// calling the vectorizer.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}
