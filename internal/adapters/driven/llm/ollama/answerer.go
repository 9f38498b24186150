// Package ollama provides an answer service adapter using a local
// Ollama instance.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

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
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// defaultAnswerSystemPrompt is the fallback template when no
// PromptStore is configured. The placeholder receives the context.
const defaultAnswerSystemPrompt = `You are a helpful assistant that answers questions using only the provided context. Each context block names its source document and relevance. If the context does not contain the answer, say you don't know rather than guessing.

Context:
%s`

// Config holds configuration for the Ollama answer service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Answerer generates answers using the Ollama /api/chat endpoint.
type Answerer struct {
	client      *http.Client
	baseURL     string
	model       string
	promptStore driven.PromptStore
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatMessage is a single message in an Ollama chat exchange.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// New creates an Ollama answer service with the given configuration.
func New(cfg Config) *Answerer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Answerer{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (a *Answerer) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// Generate answers the query from the assembled context via Ollama.
func (a *Answerer) Generate(ctx context.Context, query, contextText string, _ []domain.SearchResult) (string, error) {
	systemTemplate := a.loadPrompt(driven.PromptAnswerSystem, defaultAnswerSystemPrompt)

	reqBody := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemTemplate, contextText)},
			{Role: "user", Content: query},
		},
		Stream: false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		a.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	answer := strings.TrimSpace(chatResp.Message.Content)
	if answer == "" {
		return "I was unable to generate an answer. Please try again.", nil
	}

	return answer, nil
}

// ModelName returns the model identifier.
func (a *Answerer) ModelName() string {
	return a.model
}

// Ping verifies the Ollama server is reachable.
func (a *Answerer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama not reachable at %s: %w", a.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
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
