package driven

import "context"

// Vectorizer maps text to a fixed-length numeric vector.
// Remote implementations may fail; the lexical implementation is
// deterministic and never does.
type Vectorizer interface {
	// Vectorize returns the embedding for the given text.
	Vectorize(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector length this vectorizer produces.
	Dimensions() int

	// ModelName returns the model or method identifier.
	ModelName() string

	// Ping verifies the provider is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
