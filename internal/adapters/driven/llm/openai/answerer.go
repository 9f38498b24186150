// Package openai provides an answer service adapter using the OpenAI
// chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Answerer implements the interfaces.
var (
	_ driven.AnswerService    = (*Answerer)(nil)
	_ driven.PromptStoreAware = (*Answerer)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL           = "https://api.openai.com/v1"
	DefaultModel             = "gpt-4o-mini"
	DefaultTimeout           = 120 * time.Second
	DefaultRequestsPerSecond = 3
	DefaultMaxRetries        = 3
)

// defaultAnswerSystemPrompt is the fallback template when no
// PromptStore is configured. The placeholder receives the context.
const defaultAnswerSystemPrompt = `You are a helpful assistant that answers questions using only the provided context. Each context block names its source document and relevance. If the context does not contain the answer, say you don't know rather than guessing.

Context:
%s`

// Config holds configuration for the OpenAI answer service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond caps the client-side request rate (default: 3).
	RequestsPerSecond float64

	// MaxRetries bounds retries on transient failures (default: 3).
	MaxRetries uint64
}

// Answerer generates answers using the OpenAI /chat/completions endpoint.
type Answerer struct {
	client      *http.Client
	limiter     *rate.Limiter
	baseURL     string
	apiKey      string
	model       string
	maxRetries  uint64
	promptStore driven.PromptStore
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model    string              `json:"model"`
	Messages []chatCompletionMsg `json:"messages"`
}

// chatCompletionMsg is a single message in a chat completion exchange.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message      chatCompletionMsg `json:"message"`
		FinishReason string            `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// New creates a new OpenAI answer service.
func New(cfg Config) (*Answerer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	return &Answerer{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
	}, nil
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (a *Answerer) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// Generate answers the query from the assembled context. Transient
// failures (connection errors, 429, 5xx) are retried with exponential
// backoff before surfacing.
func (a *Answerer) Generate(ctx context.Context, query, contextText string, _ []domain.SearchResult) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	var answer string
	operation := func() error {
		result, err := a.generateOnce(ctx, query, contextText)
		if err != nil {
			return err
		}
		answer = result
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), a.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return answer, nil
}

// generateOnce performs a single chat completions API call.
// Non-retryable failures are wrapped with backoff.Permanent.
func (a *Answerer) generateOnce(ctx context.Context, query, contextText string) (string, error) {
	systemTemplate := a.loadPrompt(driven.PromptAnswerSystem, defaultAnswerSystemPrompt)

	reqBody := chatCompletionRequest{
		Model: a.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: fmt.Sprintf(systemTemplate, contextText)},
			{Role: "user", Content: query},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		a.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return "", backoff.Permanent(fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body)))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	if chatResp.Error != nil {
		return "", backoff.Permanent(fmt.Errorf("openai error: %s", chatResp.Error.Message))
	}
	if len(chatResp.Choices) == 0 {
		return "", backoff.Permanent(fmt.Errorf("openai: no choices returned"))
	}

	answer := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if answer == "" {
		return "I was unable to generate an answer. Please try again.", nil
	}
	return answer, nil
}

// ModelName returns the model identifier.
func (a *Answerer) ModelName() string {
	return a.model
}

// Ping validates the API key via the /models endpoint. Lightweight;
// no inference runs.
func (a *Answerer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai: API returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources (no-op for HTTP client).
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
