// Package failover provides an answer service that prefers a remote
// provider and degrades to a local fallback when the provider is
// unreachable or misconfigured. The pipeline keeps answering either way.
package failover

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/logger"
)

// Ensure Answerer implements the interfaces.
var (
	_ driven.AnswerService    = (*Answerer)(nil)
	_ driven.PromptStoreAware = (*Answerer)(nil)
)

// defaultInsufficientPrompt is the fallback template when no
// PromptStore is configured. The placeholder receives the query.
const defaultInsufficientPrompt = `I don't have enough information to answer "%s". Try adding more documents to the knowledge base or rephrasing your question.`

// Answerer wraps a preferred answer service with a fallback. Empty
// context short-circuits to the insufficient-information message before
// any provider is called.
type Answerer struct {
	primary     driven.AnswerService
	fallback    driven.AnswerService
	promptStore driven.PromptStore
}

// New creates a failover answerer. Primary may be nil, in which case
// every request goes straight to the fallback.
func New(primary, fallback driven.AnswerService) *Answerer {
	return &Answerer{
		primary:  primary,
		fallback: fallback,
	}
}

// SetPromptStore sets the prompt store and propagates it to the wrapped
// services that accept one.
func (a *Answerer) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
	if aware, ok := a.primary.(driven.PromptStoreAware); ok {
		aware.SetPromptStore(store)
	}
	if aware, ok := a.fallback.(driven.PromptStoreAware); ok {
		aware.SetPromptStore(store)
	}
}

// Generate answers via the primary service, falling back when it fails.
// When nothing relevant was retrieved it answers immediately with the
// insufficient-information message.
func (a *Answerer) Generate(ctx context.Context, query, contextText string, sources []domain.SearchResult) (string, error) {
	if strings.TrimSpace(contextText) == "" || len(sources) == 0 {
		template := a.loadPrompt(driven.PromptInsufficientContext, defaultInsufficientPrompt)
		return fmt.Sprintf(template, query), nil
	}

	if a.primary == nil {
		return a.fallback.Generate(ctx, query, contextText, sources)
	}

	answer, err := a.primary.Generate(ctx, query, contextText, sources)
	if err != nil {
		logger.Warn("Answer provider %s failed, using %s: %v", a.primary.ModelName(), a.fallback.ModelName(), err)
		return a.fallback.Generate(ctx, query, contextText, sources)
	}
	return answer, nil
}

// ModelName returns the primary model identifier, or the fallback's
// when no primary is configured.
func (a *Answerer) ModelName() string {
	if a.primary != nil {
		return a.primary.ModelName()
	}
	return a.fallback.ModelName()
}

// Ping checks the primary provider when configured, otherwise the
// fallback.
func (a *Answerer) Ping(ctx context.Context) error {
	if a.primary != nil {
		return a.primary.Ping(ctx)
	}
	return a.fallback.Ping(ctx)
}

// Close releases both wrapped services.
func (a *Answerer) Close() error {
	var errs []error
	if a.primary != nil {
		errs = append(errs, a.primary.Close())
	}
	errs = append(errs, a.fallback.Close())
	return errors.Join(errs...)
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
