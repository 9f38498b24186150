package driven

import "context"

// PostProcessor transforms normalised document content before it is
// embedded and stored. Processors are chained in a pipeline (e.g.,
// whitespace cleanup, length capping).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the transformed content.
	Process(ctx context.Context, content string) (string, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the content through all processors in order.
	Process(ctx context.Context, content string) (string, error)
}
