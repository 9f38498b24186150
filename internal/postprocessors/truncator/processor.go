// Package truncator provides a content length capping processor.
package truncator

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// DefaultMaxBytes is the default content ceiling. Large enough for any
// realistic document in an in-memory knowledge base, small enough to
// keep a runaway scrape from dominating the store.
const DefaultMaxBytes = 512 * 1024

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor caps content at a byte ceiling, cutting at a word boundary.
// It implements the PostProcessor interface.
type Processor struct {
	maxBytes int
}

// Option configures the truncator processor.
type Option func(*Processor)

// WithMaxBytes sets the content ceiling in bytes.
func WithMaxBytes(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxBytes = n
		}
	}
}

// New creates a new truncator processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxBytes: DefaultMaxBytes,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "truncator"
}

// Process returns the content capped at the configured ceiling.
func (p *Processor) Process(_ context.Context, content string) (string, error) {
	if len(content) <= p.maxBytes {
		return content, nil
	}

	cut := content[:p.maxBytes]

	// Cut at the last word boundary so the tail is not half a word.
	// A single giant token is cut mid-word rather than dropped.
	if i := strings.LastIndexAny(cut, " \t\n"); i > 0 {
		cut = cut[:i]
	}

	return strings.TrimRight(cut, " \t\n"), nil
}
