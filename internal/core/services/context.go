package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/logger"
)

// minPartialTokens is the smallest budget remainder worth filling with
// a truncated document. Shorter fragments cannot ground an answer.
const minPartialTokens = 50

// ContextBuilder assembles the bounded context window fed to answer
// generation from ranked search results.
type ContextBuilder struct{}

// NewContextBuilder creates a context builder.
func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{}
}

// Build concatenates document contents in descending similarity order,
// each prefixed with a provenance header, keeping the output's
// whitespace-token count at or under maxTokens. A document that would
// overflow the budget is truncated to the tokens that fit, but only
// when at least minPartialTokens of budget remain; assembly stops at
// the first document that cannot fit even partially. A non-positive
// maxTokens falls back to domain.DefaultMaxContextTokens.
func (b *ContextBuilder) Build(results []domain.SearchResult, query string, maxTokens int) string {
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxContextTokens
	}
	if len(results) == 0 {
		return ""
	}

	// The store already ranks results, but callers may hand us
	// arbitrary slices. Stable keeps insertion order on ties.
	ranked := make([]domain.SearchResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	logger.Debug("Building context for %q from %d results (budget %d tokens)", query, len(ranked), maxTokens)

	var blocks []string
	used := 0
	for _, res := range ranked {
		header := sourceHeader(res)
		headerTokens := len(strings.Fields(header))
		contentTokens := strings.Fields(res.Document.Content)

		if used+headerTokens+len(contentTokens) <= maxTokens {
			blocks = append(blocks, header+"\n"+res.Document.Content)
			used += headerTokens + len(contentTokens)
			continue
		}

		remaining := maxTokens - used - headerTokens
		if remaining < minPartialTokens {
			logger.Debug("Context budget exhausted at %d tokens, dropping %d remaining results", used, len(ranked)-len(blocks))
			break
		}

		blocks = append(blocks, header+"\n"+strings.Join(contentTokens[:remaining], " "))
		used += headerTokens + remaining
		logger.Debug("Truncated %s to %d tokens to fit the budget", res.Document.DisplayName(), remaining)
		break
	}

	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

// sourceHeader renders the provenance line placed above each document
// in the context window.
func sourceHeader(res domain.SearchResult) string {
	pct := int(math.Round(res.Similarity * 100))
	return fmt.Sprintf("[Source: %s (relevance: %d%%)]", res.Document.DisplayName(), pct)
}
