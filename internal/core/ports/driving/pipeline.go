package driving

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// PipelineService runs the full query-to-answer pipeline for external
// actors.
type PipelineService interface {
	// Ask retrieves relevant documents, assembles a bounded context,
	// and generates an answer. It always returns a well-formed
	// response: provider failures degrade to local fallbacks and
	// internal panics are converted into an error answer.
	Ask(ctx context.Context, query string) (*domain.RAGResponse, error)

	// Stats merges knowledge base statistics with the pipeline version
	// and its descriptive feature list.
	Stats(ctx context.Context) (*domain.PipelineStats, error)
}
