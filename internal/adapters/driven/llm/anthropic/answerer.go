// Package anthropic provides an answer service adapter using the
// Anthropic messages API.
package anthropic

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
	DefaultBaseURL    = "https://api.anthropic.com"
	DefaultModel      = "claude-3-5-sonnet-latest"
	DefaultTimeout    = 120 * time.Second
	DefaultMaxRetries = 3

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	// answerMaxTokens bounds the answer length. The messages API
	// requires max_tokens to be set.
	answerMaxTokens = 1024
)

// defaultAnswerSystemPrompt is the fallback template when no
// PromptStore is configured. The placeholder receives the context.
const defaultAnswerSystemPrompt = `You are a helpful assistant that answers questions using only the provided context. Each context block names its source document and relevance. If the context does not contain the answer, say you don't know rather than guessing.

Context:
%s`

// Config holds configuration for the Anthropic answer service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-5-sonnet-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// MaxRetries bounds retries on transient failures (default: 3).
	MaxRetries uint64
}

// Answerer generates answers using the Anthropic /v1/messages endpoint.
type Answerer struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxRetries  uint64
	promptStore driven.PromptStore
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model     string            `json:"model"`
	Messages  []messagesMessage `json:"messages"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// New creates a new Anthropic answer service.
func New(cfg Config) (*Answerer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
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
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	return &Answerer{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
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
// failures (connection errors, 429, 529, 5xx) are retried with
// exponential backoff before surfacing.
func (a *Answerer) Generate(ctx context.Context, query, contextText string, _ []domain.SearchResult) (string, error) {
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

// generateOnce performs a single messages API call. Non-retryable
// failures are wrapped with backoff.Permanent.
func (a *Answerer) generateOnce(ctx context.Context, query, contextText string) (string, error) {
	systemTemplate := a.loadPrompt(driven.PromptAnswerSystem, defaultAnswerSystemPrompt)

	reqBody := messagesRequest{
		Model: a.model,
		Messages: []messagesMessage{
			{Role: "user", Content: query},
		},
		MaxTokens: answerMaxTokens,
		System:    fmt.Sprintf(systemTemplate, contextText),
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		a.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

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
		return "", fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return "", backoff.Permanent(fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body)))
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	if msgResp.Error != nil {
		return "", backoff.Permanent(fmt.Errorf("anthropic error: %s", msgResp.Error.Message))
	}

	var result strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			result.WriteString(block.Text)
		}
	}

	answer := strings.TrimSpace(result.String())
	if answer == "" {
		return "I was unable to generate an answer. Please try again.", nil
	}
	return answer, nil
}

// ModelName returns the model identifier.
func (a *Answerer) ModelName() string {
	return a.model
}

// Ping validates the API key with a minimal messages call. Anthropic
// has no listing endpoint, so a one-token request is the cheapest probe.
func (a *Answerer) Ping(ctx context.Context) error {
	reqBody := messagesRequest{
		Model: a.model,
		Messages: []messagesMessage{
			{Role: "user", Content: "ping"},
		},
		MaxTokens: 1,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("anthropic: failed to marshal ping request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		a.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anthropic: API returned status %d", resp.StatusCode)
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
