// Package cleaner provides a whitespace and control-character cleanup
// processor.
package cleaner

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// DefaultMaxBlankLines is how many consecutive blank lines survive
// cleanup.
const DefaultMaxBlankLines = 1

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor normalises line endings, strips control characters, trims
// trailing whitespace per line, and collapses runs of blank lines.
// It implements the PostProcessor interface.
type Processor struct {
	maxBlankLines int
}

// Option configures the cleaner processor.
type Option func(*Processor)

// WithMaxBlankLines sets how many consecutive blank lines to keep.
func WithMaxBlankLines(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.maxBlankLines = n
		}
	}
}

// New creates a new cleaner processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxBlankLines: DefaultMaxBlankLines,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cleaner"
}

// Process returns the cleaned content.
func (p *Processor) Process(_ context.Context, content string) (string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = stripControl(content)

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blanks++
			if blanks > p.maxBlankLines {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n")), nil
}

// stripControl removes control characters other than newline and tab.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
