// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	embedfailover "github.com/custodia-labs/ragman/internal/adapters/driven/embedding/failover"
	"github.com/custodia-labs/ragman/internal/adapters/driven/embedding/lexical"
	ollamaembed "github.com/custodia-labs/ragman/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragman/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/ragman/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/ragman/internal/adapters/driven/llm/extractive"
	llmfailover "github.com/custodia-labs/ragman/internal/adapters/driven/llm/failover"
	ollamallm "github.com/custodia-labs/ragman/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragman/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Stack bundles the AI services the pipeline depends on.
type Stack struct {
	Vectorizer driven.Vectorizer
	Answerer   driven.AnswerService
	Warnings   []string // Non-fatal issues that caused fallback.
}

// Close releases all resources held by the stack.
func (s *Stack) Close() {
	if s.Vectorizer != nil {
		_ = s.Vectorizer.Close()
	}
	if s.Answerer != nil {
		_ = s.Answerer.Close()
	}
}

// Build assembles the vectorizer and answerer for the given settings.
// Remote providers are wrapped in failover adapters over the built-in
// lexical and extractive implementations, so the returned stack always
// works offline. Configuration problems are reported as warnings, never
// errors. A nil prompts store leaves the compiled-in templates active.
func Build(settings *domain.AppSettings, prompts driven.PromptStore) *Stack {
	if settings == nil {
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}

	stack := &Stack{}

	primaryVec, err := remoteVectorizer(&settings.Embedding)
	if err != nil {
		stack.Warnings = append(stack.Warnings,
			fmt.Sprintf("embedding provider %s unavailable, falling back to lexical: %v", settings.Embedding.Provider, err))
	}
	stack.Vectorizer = embedfailover.New(primaryVec, lexical.New())

	primaryAns, err := remoteAnswerer(&settings.Answer)
	if err != nil {
		stack.Warnings = append(stack.Warnings,
			fmt.Sprintf("answer provider %s unavailable, falling back to extractive: %v", settings.Answer.Provider, err))
	}
	answerer := llmfailover.New(primaryAns, extractive.New())
	if prompts != nil {
		answerer.SetPromptStore(prompts)
	}
	stack.Answerer = answerer

	return stack
}

// remoteVectorizer creates the remote embedding provider named by the
// settings, or nil when the settings name a built-in provider. A remote
// provider missing its API key is an error rather than a silent nil so
// that Build can surface the problem.
func remoteVectorizer(settings *domain.EmbeddingSettings) (driven.Vectorizer, error) {
	if settings == nil || !settings.Provider.IsRemote() {
		return nil, nil
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%s requires an API key", settings.Provider)
	}
	return CreateVectorizer(settings)
}

// remoteAnswerer creates the remote completion provider named by the
// settings, or nil when the settings name a built-in provider.
func remoteAnswerer(settings *domain.AnswerSettings) (driven.AnswerService, error) {
	if settings == nil || !settings.Provider.IsRemote() {
		return nil, nil
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%s requires an API key", settings.Provider)
	}
	return CreateAnswerer(settings)
}

// CreateVectorizer creates the appropriate vectorizer based on settings.
// Returns nil if the provider is not configured.
func CreateVectorizer(settings *domain.EmbeddingSettings) (driven.Vectorizer, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderLexical:
		return lexical.New(), nil

	case domain.AIProviderOllama:
		return createOllamaVectorizer(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIVectorizer(settings)

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateAnswerer creates the appropriate answer service based on settings.
// Returns nil if the provider is not configured.
func CreateAnswerer(settings *domain.AnswerSettings) (driven.AnswerService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderExtractive:
		return extractive.New(), nil

	case domain.AIProviderOllama:
		return createOllamaAnswerer(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIAnswerer(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicAnswerer(settings)

	default:
		return nil, fmt.Errorf("unsupported answer provider: %s", settings.Provider)
	}
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for the settings commands to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateVectorizer(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateAnswerConfig validates a completion configuration by creating a service and pinging it.
// This is intended for the settings commands to validate credentials on configuration.
func ValidateAnswerConfig(settings *domain.AnswerSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateAnswerer(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// createOllamaVectorizer creates an Ollama vectorizer. The adapter
// fills in defaults for any unset field.
func createOllamaVectorizer(settings *domain.EmbeddingSettings) driven.Vectorizer {
	return ollamaembed.New(ollamaembed.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAIVectorizer creates an OpenAI vectorizer.
func createOpenAIVectorizer(settings *domain.EmbeddingSettings) (driven.Vectorizer, error) {
	return openaiembed.New(openaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOllamaAnswerer creates an Ollama answer service.
func createOllamaAnswerer(settings *domain.AnswerSettings) driven.AnswerService {
	return ollamallm.New(ollamallm.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAIAnswerer creates an OpenAI answer service.
func createOpenAIAnswerer(settings *domain.AnswerSettings) (driven.AnswerService, error) {
	return openaillm.New(openaillm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicAnswerer creates an Anthropic answer service.
func createAnthropicAnswerer(settings *domain.AnswerSettings) (driven.AnswerService, error) {
	return anthropicllm.New(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
