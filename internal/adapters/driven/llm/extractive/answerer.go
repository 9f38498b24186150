// Package extractive provides an answer service that summarises
// retrieved context without calling any model provider. It is the
// fallback of last resort: it works offline and never fails.
package extractive

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Answerer implements the interfaces.
var (
	_ driven.AnswerService    = (*Answerer)(nil)
	_ driven.PromptStoreAware = (*Answerer)(nil)
)

// Selection limits for extracted sentences.
const (
	// minSentenceLength filters out fragments left over from
	// sentence splitting, such as abbreviation tails.
	minSentenceLength = 20

	// maxMatchedSentences caps how many query-relevant sentences
	// make it into the answer.
	maxMatchedSentences = 5

	// leadSentences is how many opening sentences to fall back on
	// when nothing in the context matches the query.
	leadSentences = 3
)

// defaultInsufficientPrompt is the fallback template when no
// PromptStore is configured. The placeholder receives the query.
const defaultInsufficientPrompt = `I don't have enough information to answer "%s". Try adding more documents to the knowledge base or rephrasing your question.`

// Answerer builds answers by extracting the context sentences most
// relevant to the query. Quality is well below a completion provider,
// but the result is grounded, attributed and available offline.
type Answerer struct {
	promptStore driven.PromptStore
}

// New creates an extractive answerer.
func New() *Answerer {
	return &Answerer{}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (a *Answerer) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// Generate extracts the sentences of contextText that best match the
// query and joins them into an answer with a relevance trailer. When
// the context is empty it returns the insufficient-information message
// instead. The error is always nil.
func (a *Answerer) Generate(ctx context.Context, query, contextText string, sources []domain.SearchResult) (string, error) {
	if strings.TrimSpace(contextText) == "" || len(sources) == 0 {
		template := a.loadPrompt(driven.PromptInsufficientContext, defaultInsufficientPrompt)
		return fmt.Sprintf(template, query), nil
	}

	sentences := splitSentences(contextText)
	queryTokens := strings.Fields(strings.ToLower(query))

	var matched []string
	for _, sentence := range sentences {
		if overlapsQuery(sentence, queryTokens) {
			matched = append(matched, sentence)
			if len(matched) == maxMatchedSentences {
				break
			}
		}
	}

	// Nothing matched: lead with the opening of the context rather
	// than returning an empty answer.
	if len(matched) == 0 {
		matched = sentences
		if len(matched) > leadSentences {
			matched = matched[:leadSentences]
		}
	}

	answer := strings.Join(matched, ". ")
	if answer != "" && !strings.HasSuffix(answer, ".") {
		answer += "."
	}

	return answer + relevanceTrailer(sources), nil
}

// ModelName returns the method identifier.
func (a *Answerer) ModelName() string {
	return "extractive-v1"
}

// Ping always succeeds; there is no remote provider to reach.
func (a *Answerer) Ping(ctx context.Context) error {
	return nil
}

// Close releases resources (no-op).
func (a *Answerer) Close() error {
	return nil
}

// loadPrompt loads a prompt from the store, falling back to the default
// if no store is configured or the prompt cannot be loaded.
func (a *Answerer) loadPrompt(name, fallback string) string {
	if a.promptStore == nil {
		return fallback
	}
	prompt, err := a.promptStore.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// splitSentences breaks text into sentences on terminal punctuation and
// line breaks, dropping fragments too short to carry meaning. Source
// headers embedded in the context mostly fall below the length floor.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})

	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if len(trimmed) > minSentenceLength {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// overlapsQuery reports whether any sentence token and query token
// contain one another. Substring matching in both directions catches
// simple inflections like "cat" in "cats" and "searching" for "search".
func overlapsQuery(sentence string, queryTokens []string) bool {
	sentenceTokens := strings.Fields(strings.ToLower(sentence))
	for _, st := range sentenceTokens {
		for _, qt := range queryTokens {
			if qt == "" || st == "" {
				continue
			}
			if strings.Contains(st, qt) || strings.Contains(qt, st) {
				return true
			}
		}
	}
	return false
}

// relevanceTrailer reports how many sources backed the answer and their
// average similarity as a percentage.
func relevanceTrailer(sources []domain.SearchResult) string {
	var sum float64
	for _, src := range sources {
		sum += src.Similarity
	}
	avg := int(math.Round(sum / float64(len(sources)) * 100))

	noun := "sources"
	if len(sources) == 1 {
		noun = "source"
	}
	return fmt.Sprintf("\n\n(Based on %d %s, average relevance %d%%)", len(sources), noun, avg)
}
